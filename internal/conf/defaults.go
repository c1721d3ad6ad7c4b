package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults registers every setting's default value.
func setDefaults() {
	viper.SetDefault("debug", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("root", ".")
	viper.SetDefault("version", "2.0.0")
	viper.SetDefault("force", false)
	viper.SetDefault("dryrun", false)
	viper.SetDefault("logfile", "")
	viper.SetDefault("overrides", "")

	viper.SetDefault("webhook.url", "")
	viper.SetDefault("webhook.baseurl", "")
	viper.SetDefault("webhook.secret", "")
	viper.SetDefault("webhook.always", false)
	viper.SetDefault("webhook.disabled", false)

	viper.SetDefault("featured.itemspercategory", 2)
	viper.SetDefault("featured.totallimit", 6)

	viper.SetDefault("watch.debounce", 2*time.Second)
}

// bindEnv wires the published environment variables. Names are part of the
// deployment contract (CI and the admin upload hook export them).
func bindEnv() {
	// Errors from BindEnv only occur with zero arguments.
	_ = viper.BindEnv("webhook.url", "MANIFEST_WEBHOOK_URL")
	_ = viper.BindEnv("webhook.baseurl", "MANIFEST_WEBHOOK_BASE")
	_ = viper.BindEnv("webhook.secret", "WEBHOOK_SECRET")
	_ = viper.BindEnv("webhook.always", "MANIFEST_WEBHOOK_ALWAYS")
	_ = viper.BindEnv("webhook.disabled", "MANIFEST_WEBHOOK_DISABLED")
	_ = viper.BindEnv("root", "PORTFOLIO_ROOT")
}
