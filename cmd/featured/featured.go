package featured

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sharpframe/portfolio-manifest/internal/conf"
	"github.com/sharpframe/portfolio-manifest/internal/generator"
)

// Command creates the featured command. It reads the per-type manifests
// already on disk and writes the cross-portfolio featured manifest.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "featured",
		Short: "Build the featured manifest from the per-type manifests",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := generator.New(settings).RunFeatured(cmd.Context())
			return err
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags defines flags specific to the featured command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().IntVar(&settings.Featured.ItemsPerCategory, "per-category",
		viper.GetInt("featured.itemspercategory"), "Newest items taken from each portfolio type")
	cmd.Flags().IntVar(&settings.Featured.TotalLimit, "limit",
		viper.GetInt("featured.totallimit"), "Total item cap for the featured manifest")

	for flag, key := range map[string]string{
		"per-category": "featured.itemspercategory",
		"limit":        "featured.totallimit",
	} {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flags: %w", err)
		}
	}
	return nil
}
