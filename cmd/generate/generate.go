package generate

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sharpframe/portfolio-manifest/internal/conf"
	"github.com/sharpframe/portfolio-manifest/internal/generator"
	"github.com/sharpframe/portfolio-manifest/internal/manifest"
)

// Command creates the generate command for per-type manifest generation.
func Command(settings *conf.Settings) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "generate [type]",
		Short: "Generate the aggregate manifest for one portfolio type",
		Long: "Scans the given portfolio type's folder and writes its aggregate manifest.\n" +
			"Types: " + strings.Join(manifest.Types, ", ") + ". With --all, every type is\n" +
			"generated in order followed by the featured manifest.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := generator.New(settings)

			if all {
				_, err := g.RunAll(cmd.Context())
				return err
			}

			if len(args) == 0 {
				return cmd.Help()
			}
			_, err := g.RunType(cmd.Context(), strings.ToLower(args[0]))
			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Generate every portfolio type plus the featured manifest")

	return cmd
}
