// internal/views/batch/config.go
package batch

import (
	"time"

	"github.com/anujsoni3/NovaScore/internal/common/config"
)

const (
	TemplateFilename = "batch_assessment_template.csv"
	ResultsFilename  = "batch_assessment_results.csv"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{Timeout: 30 * time.Second}
	if cfg != nil && cfg.API.Timeout > 0 {
		c.Timeout = cfg.API.RequestTimeout()
	}
	return c
}
