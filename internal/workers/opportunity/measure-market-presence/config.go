// internal/workers/opportunity/measure-market-presence/config.go
package measuremarketpresence

import "time"

type Config struct {
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{Timeout: 20 * time.Second}
}
