// internal/views/assessment/config.go
package assessment

import (
	"time"

	"github.com/anujsoni3/NovaScore/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// Preflight asks the service which model features the payload covers
	// before submitting it.
	Preflight bool
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{Timeout: 30 * time.Second}
	if cfg != nil && cfg.API.Timeout > 0 {
		c.Timeout = cfg.API.RequestTimeout()
	}
	return c
}
