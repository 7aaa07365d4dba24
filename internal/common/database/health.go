package database

import (
	"context"
	"fmt"
	"time"

	"crosslaunch-workers/internal/common/logger"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings every dependency with its own timeout and reports each
// status as "ok" or the error text.
func CheckAll(ctx context.Context, timeout time.Duration, pingers ...Pinger) (map[string]string, bool) {
	statuses := make(map[string]string, len(pingers))
	ready := true

	for _, p := range pingers {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err := p.Ping(pctx)
		cancel()

		if err != nil {
			statuses[p.Name()] = err.Error()
			ready = false
			continue
		}
		statuses[p.Name()] = "ok"
	}
	return statuses, ready
}

// ConnectWithRetry pings a freshly created dependency until it answers,
// doubling the delay after each failed attempt.
func ConnectWithRetry(ctx context.Context, p Pinger, maxAttempts int, initialDelay time.Duration, log logger.Logger) error {
	var err error
	delay := initialDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = p.Ping(ctx); err == nil {
			log.Info("connected", map[string]interface{}{"dependency": p.Name(), "attempt": attempt})
			return nil
		}

		if attempt == maxAttempts {
			break
		}
		log.Warn("connection failed, retrying", map[string]interface{}{
			"dependency":  p.Name(),
			"attempt":     attempt,
			"maxAttempts": maxAttempts,
			"nextRetryIn": delay.String(),
			"error":       err.Error(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}

	return fmt.Errorf("%s unreachable after %d attempts: %w", p.Name(), maxAttempts, err)
}
