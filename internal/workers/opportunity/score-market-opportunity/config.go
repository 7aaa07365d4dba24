// internal/workers/opportunity/score-market-opportunity/config.go
package scoremarketopportunity

import "time"

type Config struct {
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}
