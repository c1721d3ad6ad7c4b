// Package conf loads and validates the generator settings. Configuration
// layering follows the usual precedence: command-line flags over
// environment variables over the optional config file over defaults.
package conf

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/sharpframe/portfolio-manifest/internal/errors"
)

// Settings holds every knob the generators use.
type Settings struct {
	Debug bool `mapstructure:"debug"`

	// Verbose raises log verbosity without the full debug firehose.
	Verbose bool `mapstructure:"verbose"`

	// Root is the portfolio root directory containing the per-type folders
	// (Concert, Events, Journalism, Nature, Portrait).
	Root string `mapstructure:"root"`

	// Version is the manifest version string written to every artifact.
	Version string `mapstructure:"version"`

	// Force bypasses the idempotent skip and rewrites identical content.
	Force bool `mapstructure:"force"`

	// DryRun scans and logs without writing manifests or notifying.
	DryRun bool `mapstructure:"dryrun"`

	// LogFile, when set, mirrors structured logs to a rotating file.
	LogFile string `mapstructure:"logfile"`

	// Overrides is the path of the date override JSON file. Empty means
	// <root>/date-overrides.json.
	Overrides string `mapstructure:"overrides"`

	Webhook  WebhookSettings  `mapstructure:"webhook"`
	Featured FeaturedSettings `mapstructure:"featured"`
	Watch    WatchSettings    `mapstructure:"watch"`
}

// WebhookSettings configures the cache-refresh notifier.
type WebhookSettings struct {
	// URL is an explicit endpoint; may contain a {type} placeholder.
	URL string `mapstructure:"url"`
	// BaseURL is the service base; /refresh/<type> is appended.
	BaseURL string `mapstructure:"baseurl"`
	// Secret is sent as the x-webhook-secret header when set.
	Secret string `mapstructure:"secret"`
	// Always notifies even when the manifest write was skipped.
	Always bool `mapstructure:"always"`
	// Disabled skips notification entirely, without a network call.
	Disabled bool `mapstructure:"disabled"`
}

// FeaturedSettings configures cross-portfolio featured selection.
type FeaturedSettings struct {
	ItemsPerCategory int `mapstructure:"itemspercategory"`
	TotalLimit       int `mapstructure:"totallimit"`
}

// WatchSettings configures the filesystem watch variant.
type WatchSettings struct {
	// Debounce coalesces bursts of filesystem events into one run.
	Debounce time.Duration `mapstructure:"debounce"`
}

// OverridesPath returns the effective override file location.
func (s *Settings) OverridesPath() string {
	if s.Overrides != "" {
		return s.Overrides
	}
	return fmt.Sprintf("%s/date-overrides.json", s.Root)
}

// Load builds Settings from defaults, an optional config file, and the
// environment. Flag binding happens in the command layer via viper.
func Load() (*Settings, error) {
	setDefaults()
	bindEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/portfolio-manifest")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Newf("reading config file: %w", err).
				Category(errors.CategoryConfiguration).
				Component("conf").
				Build()
		}
		// No config file is fine; defaults + env + flags cover everything.
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.Newf("unmarshaling settings: %w", err).
			Category(errors.CategoryConfiguration).
			Component("conf").
			Build()
	}
	return settings, nil
}

// Sync re-unmarshals viper state into settings after flag parsing, so
// command-line arguments take precedence.
func Sync(settings *Settings) error {
	if err := viper.Unmarshal(settings); err != nil {
		return errors.Newf("syncing settings: %w", err).
			Category(errors.CategoryConfiguration).
			Component("conf").
			Build()
	}
	return Validate(settings)
}
