package config

import "time"

// Config holds runtime settings for the aichef client.
//
// Fields:
//   - BaseURL: scheme://host:port of the backend HTTP API.
//   - CacheDSN: SQLite DSN of the local session cache.
//   - RequestTimeout: per-request bound on calls to the backend.
type Config struct {
	BaseURL        string
	CacheDSN       string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080"
	c.CacheDSN = "aichef.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
