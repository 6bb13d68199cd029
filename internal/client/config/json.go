package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/wishsync/internal/flagx"
	"github.com/dmitrijs2005/wishsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	DataDir             string         `json:"data_dir"`
	StoreFile           string         `json:"store_file"`
	StaleTime           timex.Duration `json:"stale_time"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	PingTimeout         timex.Duration `json:"ping_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	MaxValueBytes       int            `json:"max_value_bytes"`
	LogLevel            string         `json:"log_level"`
	Language            string         `json:"language"`
	Currency            string         `json:"currency"`
}

// parseJson overlays Config with values loaded from a JSON file named by the
// -c or -config flag. Fields absent from the file keep their value. Panics on
// read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.StoreFile, jc.StoreFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.Language, jc.Language)
	setString(&cfg.Currency, jc.Currency)
	setDuration(&cfg.StaleTime, jc.StaleTime)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.PingTimeout, jc.PingTimeout)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	if jc.MaxValueBytes > 0 {
		cfg.MaxValueBytes = jc.MaxValueBytes
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration > 0 {
		*dst = v.Duration
	}
}
