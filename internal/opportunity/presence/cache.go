package presence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

// CachedSource keeps successful measurements of the wrapped source in Redis.
// Degraded results are never cached, and any Redis failure falls through to
// the wrapped source.
type CachedSource[M any] struct {
	inner  Source[M]
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource[M any](inner Source[M], rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedSource[M] {
	return &CachedSource[M]{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"source": inner.Name(), "cache": "redis"}),
	}
}

func (c *CachedSource[M]) Name() string { return c.inner.Name() }

func (c *CachedSource[M]) Measure(ctx context.Context, country string, keywords []string) Result[M] {
	key := cacheKey(c.inner.Name(), country, keywords)

	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		var m M
		if err := json.Unmarshal([]byte(val), &m); err == nil {
			metrics.SignalMeasurements.WithLabelValues(c.inner.Name(), "cache_hit").Inc()
			return Measured(m)
		}
	} else if err != redis.Nil {
		c.logger.Debug("cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	result := c.inner.Measure(ctx, country, keywords)
	if result.IsDegraded() {
		return result
	}

	data, err := json.Marshal(result.Metrics)
	if err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Debug("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return result
}

func cacheKey(source, country string, keywords []string) string {
	sum := sha256.Sum256([]byte(strings.Join(keywords, "\x1f")))
	return "presence:" + source + ":" + strings.ToUpper(country) + ":" + hex.EncodeToString(sum[:8])
}
