package markets

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

// Source is the contract every market source satisfies.
type Source interface {
	Markets(ctx context.Context, countryCodes []string) ([]models.Market, error)
}

// CachedSource keeps market rows in Redis, one key per country. Only the codes
// missing from the cache reach the wrapped source.
type CachedSource struct {
	inner  Source
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(inner Source, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"marketSource": "redis-cache"}),
	}
}

func (c *CachedSource) Markets(ctx context.Context, countryCodes []string) ([]models.Market, error) {
	if len(countryCodes) == 0 {
		return nil, nil
	}

	found := make(map[string]models.Market, len(countryCodes))
	missing := c.readCache(ctx, countryCodes, found)

	if len(missing) > 0 {
		fetched, err := c.inner.Markets(ctx, missing)
		if err != nil {
			return nil, err
		}
		c.writeCache(ctx, fetched)
		for _, m := range fetched {
			found[strings.ToUpper(m.CountryCode)] = m
		}
	}

	out := make([]models.Market, 0, len(found))
	for _, code := range countryCodes {
		if m, ok := found[strings.ToUpper(code)]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c *CachedSource) readCache(ctx context.Context, codes []string, found map[string]models.Market) []string {
	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = marketKey(code)
	}

	vals, err := c.redis.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Debug("market cache read failed", map[string]interface{}{"error": err.Error()})
		return codes
	}

	var missing []string
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, codes[i])
			continue
		}
		var m models.Market
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			missing = append(missing, codes[i])
			continue
		}
		found[strings.ToUpper(codes[i])] = m
	}
	return missing
}

func (c *CachedSource) writeCache(ctx context.Context, markets []models.Market) {
	if len(markets) == 0 {
		return
	}
	pipe := c.redis.Pipeline()
	for _, m := range markets {
		data, err := json.Marshal(m)
		if err != nil {
			continue
		}
		pipe.Set(ctx, marketKey(m.CountryCode), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Debug("market cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func marketKey(code string) string {
	return "market:" + strings.ToUpper(code)
}
