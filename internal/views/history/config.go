// internal/views/history/config.go
package history

import (
	"time"

	"github.com/anujsoni3/NovaScore/internal/common/config"
)

const (
	ExportFilename = "assessment_history.csv"
	DefaultLimit   = 100
)

type Config struct {
	Limit   int
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{Limit: DefaultLimit, Timeout: 30 * time.Second}
	if cfg == nil {
		return c
	}
	if cfg.API.HistoryLimit > 0 {
		c.Limit = cfg.API.HistoryLimit
	}
	if cfg.API.Timeout > 0 {
		c.Timeout = cfg.API.RequestTimeout()
	}
	return c
}
