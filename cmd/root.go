package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sharpframe/portfolio-manifest/cmd/featured"
	"github.com/sharpframe/portfolio-manifest/cmd/generate"
	"github.com/sharpframe/portfolio-manifest/cmd/watch"
	"github.com/sharpframe/portfolio-manifest/internal/conf"
	"github.com/sharpframe/portfolio-manifest/internal/logging"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "portfolio-manifest",
		Short: "Portfolio manifest generator CLI",
		Long:  "Scans the portfolio directory tree and generates the JSON manifests the site widgets consume.",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		generate.Command(settings),
		featured.Command(settings),
		watch.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Sync the settings struct with viper so command-line arguments
		// take precedence over env and config file values.
		if err := conf.Sync(settings); err != nil {
			return err
		}
		// Logging was first initialized before flag parsing; the verbosity
		// and log-file flags only take effect here.
		logging.Init(logLevel(settings), settings.LogFile)
		return nil
	}

	return rootCmd
}

// logLevel maps the verbosity settings to a slog level.
func logLevel(s *conf.Settings) slog.Level {
	if s.Debug || s.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().BoolVarP(&settings.Verbose, "verbose", "v", viper.GetBool("verbose"), "Verbose diagnostic output")
	rootCmd.PersistentFlags().StringVar(&settings.Root, "root", viper.GetString("root"), "Portfolio root directory")
	rootCmd.PersistentFlags().StringVar(&settings.Version, "version", viper.GetString("version"), "Manifest version string")
	rootCmd.PersistentFlags().BoolVar(&settings.Force, "force", viper.GetBool("force"), "Rewrite manifests even when content is unchanged")
	rootCmd.PersistentFlags().BoolVar(&settings.DryRun, "dry", viper.GetBool("dryrun"), "Scan and log without writing manifests")
	rootCmd.PersistentFlags().StringVar(&settings.LogFile, "logfile", viper.GetString("logfile"), "Mirror structured logs to a rotating file")
	rootCmd.PersistentFlags().StringVar(&settings.Overrides, "overrides", viper.GetString("overrides"), "Path to the date override JSON file")

	for flag, key := range map[string]string{
		"debug":     "debug",
		"verbose":   "verbose",
		"root":      "root",
		"version":   "version",
		"force":     "force",
		"dry":       "dryrun",
		"logfile":   "logfile",
		"overrides": "overrides",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flags: %w", err)
		}
	}

	return nil
}
