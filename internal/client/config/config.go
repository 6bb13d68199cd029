package config

import (
	"time"

	"github.com/dmitrijs2005/wishsync/internal/client/query"
	"github.com/dmitrijs2005/wishsync/internal/client/storage"
)

// Config holds runtime settings for the wishsync CLI.
//
// Fields:
//   - APIBaseURL: base URL of the storefront backend.
//   - DataDir, StoreFile: location of the local SQLite store.
//   - StaleTime: freshness window of cached remote reads.
//   - RequestTimeout: default timeout of remote calls.
//   - PingTimeout: explicit deadline of the best-effort liveness probe.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - MaxValueBytes: largest value accepted by local storage.
//   - LogLevel: debug, info, warn or error.
//   - Language, Currency: display preferences used until the shopper sets one.
type Config struct {
	APIBaseURL          string        `envconfig:"API_URL"`
	DataDir             string        `envconfig:"DATA_DIR"`
	StoreFile           string        `envconfig:"STORE_FILE"`
	StaleTime           time.Duration `envconfig:"STALE_TIME"`
	RequestTimeout      time.Duration `envconfig:"REQUEST_TIMEOUT"`
	PingTimeout         time.Duration `envconfig:"PING_TIMEOUT"`
	OnlineCheckInterval time.Duration `envconfig:"ONLINE_CHECK_INTERVAL"`
	MaxValueBytes       int           `envconfig:"MAX_VALUE_BYTES"`
	LogLevel            string        `envconfig:"LOG_LEVEL"`
	Language            string        `envconfig:"LANGUAGE"`
	Currency            string        `envconfig:"CURRENCY"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.DataDir = "data"
	c.StoreFile = "wishsync.db"
	c.StaleTime = query.DefaultStaleTime
	c.RequestTimeout = 15 * time.Second
	c.PingTimeout = 2 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.MaxValueBytes = storage.DefaultQuota
	c.LogLevel = "warn"
	c.Language = "en"
	c.Currency = "USD"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
