// internal/workers/opportunity/classify-business-model/config.go
package classifybusinessmodel

import "time"

type Config struct {
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}
