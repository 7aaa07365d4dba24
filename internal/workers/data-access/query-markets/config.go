// internal/workers/data-access/query-markets/config.go
package querymarkets

import (
	"time"

	"crosslaunch-workers/internal/opportunity/pipeline"
)

type Config struct {
	Timeout time.Duration
	// DefaultCountryCodes is queried when the job names no countries.
	DefaultCountryCodes []string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:             10 * time.Second,
		DefaultCountryCodes: pipeline.DefaultMarkets,
	}
}
