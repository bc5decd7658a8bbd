// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	API       APIConfig       `mapstructure:"api"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig points the client at the NovaScore assessment service.
type APIConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
	HistoryLimit int    `mapstructure:"history_limit"`
}

// RequestTimeout returns the per-request timeout.
func (a APIConfig) RequestTimeout() time.Duration {
	return GetDuration(a.Timeout)
}

// DashboardConfig holds polling settings for the dashboard view.
type DashboardConfig struct {
	RefreshInterval int `mapstructure:"refresh_interval"` // milliseconds
	HistoryLimit    int `mapstructure:"history_limit"`
}

// Interval returns the refresh period.
func (d DashboardConfig) Interval() time.Duration {
	return GetDuration(d.RefreshInterval)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig controls the optional prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}
