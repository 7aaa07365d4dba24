// internal/workers/opportunity/analyze-market-opportunity/config.go
package analyzemarketopportunity

import "time"

type Config struct {
	// Timeout covers the whole fan-out, so it should exceed the per-market timeout.
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{Timeout: 60 * time.Second}
}
