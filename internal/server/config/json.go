package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/wishsync/internal/flagx"
	"github.com/dmitrijs2005/wishsync/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// Intervals use timex.Duration, which accepts both strings such as "1m" and
// integer nanoseconds.
type JsonConfig struct {
	Addr                        string         `json:"addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	RedisURL                    string         `json:"redis_url"`
	RateLimit                   int            `json:"rate_limit"`
	RateLimitWindow             timex.Duration `json:"rate_limit_window"`
	ShareBaseURL                string         `json:"share_base_url"`
	LogLevel                    string         `json:"log_level"`
	LogFormat                   string         `json:"log_format"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag. If no file is named nothing is loaded. Fields absent from the
// file keep their value. The function panics on read or unmarshal errors.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err = json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.Addr, c.Addr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.RedisURL, c.RedisURL)
	setString(&config.ShareBaseURL, c.ShareBaseURL)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	if d := c.AccessTokenValidityDuration.Duration; d > 0 {
		config.AccessTokenValidityDuration = d
	}
	if d := c.RateLimitWindow.Duration; d > 0 {
		config.RateLimitWindow = d
	}
	if c.RateLimit > 0 {
		config.RateLimit = c.RateLimit
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
