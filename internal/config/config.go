// Package config defines service configuration and its loading hooks.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath points at a catalog file on disk. Empty means the
	// resource bundled into the binary.
	CatalogPath string `koanf:"catalog_path"`

	// SessionSize bounds the number of live picker sessions.
	SessionSize int `koanf:"session_size"`

	// SessionTTLSeconds discards sessions that were not touched for this long.
	SessionTTLSeconds int `koanf:"session_ttl_seconds"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		SessionSize:       10_000,
		SessionTTLSeconds: 1800,
	}
}

// SessionTTL returns SessionTTLSeconds as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}
