// internal/views/dashboard/config.go
package dashboard

import (
	"time"

	"github.com/anujsoni3/NovaScore/internal/common/config"
)

const (
	DefaultInterval     = 30 * time.Second
	DefaultHistoryLimit = 100
)

type Config struct {
	// Interval is the polling period. The scheduler rounds anything below a
	// second up to one second.
	Interval     time.Duration
	HistoryLimit int
	Timeout      time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Interval:     DefaultInterval,
		HistoryLimit: DefaultHistoryLimit,
		Timeout:      30 * time.Second,
	}
	if cfg == nil {
		return c
	}
	if cfg.Dashboard.RefreshInterval > 0 {
		c.Interval = cfg.Dashboard.Interval()
	}
	if cfg.Dashboard.HistoryLimit > 0 {
		c.HistoryLimit = cfg.Dashboard.HistoryLimit
	}
	if cfg.API.Timeout > 0 {
		c.Timeout = cfg.API.RequestTimeout()
	}
	return c
}
