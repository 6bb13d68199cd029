package config

import "github.com/kelseyhightower/envconfig"

// EnvPrefix prefixes every environment variable, e.g. WISHSYNC_API_URL.
const EnvPrefix = "WISHSYNC"

// parseEnv overlays cfg with the WISHSYNC_* environment variables that are
// set. Unset variables leave fields untouched. Panics on malformed values.
func parseEnv(cfg *Config) {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		panic(err)
	}
}
