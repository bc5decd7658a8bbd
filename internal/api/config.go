package api

import (
	"strings"
	"time"

	"github.com/anujsoni3/NovaScore/internal/common/config"
)

const (
	DefaultHistoryLimit = 100
	DefaultTimeout      = 30 * time.Second

	maxErrorBodyBytes = 64 << 10
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// LoadConfig derives the client settings from the application config.
func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		BaseURL: config.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
	if cfg == nil {
		return c
	}
	if cfg.API.BaseURL != "" {
		c.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	}
	if cfg.API.Timeout > 0 {
		c.Timeout = cfg.API.RequestTimeout()
	}
	return c
}
