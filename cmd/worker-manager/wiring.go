// cmd/worker-manager/wiring.go
package main

import (
	"context"
	"fmt"
	"time"

	"crosslaunch-workers/internal/common/aws"
	"crosslaunch-workers/internal/common/config"
	"crosslaunch-workers/internal/common/database"
	apperrors "crosslaunch-workers/internal/common/errors"
	commonhttp "crosslaunch-workers/internal/common/http"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/opportunity/markets"
	"crosslaunch-workers/internal/opportunity/pipeline"
	"crosslaunch-workers/internal/opportunity/presence"
	"crosslaunch-workers/internal/opportunity/sink"
)

const (
	connectAttempts = 15
	connectDelay    = 2 * time.Second
	userAgent       = "crosslaunch-workers"
)

// stores holds the optional backing stores. A nil field means the store is
// not configured.
type stores struct {
	postgres      *database.PostgresClient
	redis         *database.RedisClient
	elasticsearch *database.ElasticsearchClient
}

func connectStores(ctx context.Context, cfg *config.Config, log logger.Logger) (*stores, error) {
	s := &stores{}

	if cfg.Database.Postgres.Configured() {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		if err := database.ConnectWithRetry(ctx, pg, connectAttempts, connectDelay, log); err != nil {
			_ = pg.Close()
			return nil, apperrors.NewDatabaseConnectionFailedError(err)
		}
		s.postgres = pg
	}

	if cfg.Database.Redis.Address != "" {
		rc := database.NewRedis(cfg.Database.Redis)
		if err := database.ConnectWithRetry(ctx, rc, connectAttempts, connectDelay, log); err != nil {
			_ = rc.Close()
			s.Close()
			return nil, err
		}
		s.redis = rc
	}

	if cfg.Database.Elasticsearch.GetURL() != "" {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			s.Close()
			return nil, err
		}
		if err := database.ConnectWithRetry(ctx, es, connectAttempts, connectDelay, log); err != nil {
			s.Close()
			return nil, err
		}
		s.elasticsearch = es
	}

	return s, nil
}

// Pingers lists the connected stores for the readiness probe.
func (s *stores) Pingers() []database.Pinger {
	var out []database.Pinger
	if s.postgres != nil {
		out = append(out, s.postgres)
	}
	if s.redis != nil {
		out = append(out, s.redis)
	}
	if s.elasticsearch != nil {
		out = append(out, s.elasticsearch)
	}
	return out
}

func (s *stores) Close() {
	if s.postgres != nil {
		_ = s.postgres.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
}

func newUpstreamClient(u config.UpstreamConfig) *commonhttp.Client {
	return commonhttp.NewRateLimitedClient(commonhttp.Options{
		Timeout:           config.GetDuration(u.Timeout),
		RequestsPerSecond: u.RequestsPerSecond,
		Burst:             u.Burst,
		UserAgent:         userAgent,
	})
}

func buildPresenceAnalyzer(cfg *config.Config, s *stores, log logger.Logger) *presence.Analyzer {
	var github presence.DeveloperActivitySource = presence.NewGitHubSource(presence.GitHubConfig{
		BaseURL: cfg.APIs.GitHub.BaseURL,
		Token:   cfg.APIs.GitHub.Token,
	}, newUpstreamClient(cfg.APIs.GitHub.UpstreamConfig), log)

	var news presence.MediaCoverageSource
	if cfg.APIs.News.Backend == config.NewsBackendElasticsearch {
		news = presence.NewElasticsearchNewsSource(presence.ElasticsearchNewsConfig{
			Index: cfg.APIs.News.Index,
		}, s.elasticsearch.Client, log)
	} else {
		news = presence.NewNewsAPISource(presence.NewsAPIConfig{
			BaseURL: cfg.APIs.News.BaseURL,
			APIKey:  cfg.APIs.News.APIKey,
		}, newUpstreamClient(cfg.APIs.News.UpstreamConfig), log)
	}

	// Trends are synthetic and cheap, so only the two network sources are cached.
	if ttl := cfg.Analysis.SignalCacheDuration(); s.redis != nil && ttl > 0 {
		github = presence.NewCachedSource(github, s.redis.Client, ttl, log)
		news = presence.NewCachedSource(news, s.redis.Client, ttl, log)
	}

	return presence.NewAnalyzer(github, news, presence.NewTrendsSource(nil, log), log)
}

func buildMarketSource(cfg *config.Config, s *stores, log logger.Logger) markets.Source {
	var source markets.Source
	if cfg.Analysis.MarketSource == config.MarketSourcePostgres && s.postgres != nil {
		source = markets.NewPostgresSource(s.postgres.DB, log)
	} else {
		source = markets.NewStaticSource()
	}

	if ttl := cfg.Analysis.MarketCacheDuration(); s.redis != nil && ttl > 0 {
		source = markets.NewCachedSource(source, s.redis.Client, ttl, log)
	}
	return source
}

// buildResultSink returns nil when no sink is configured, which disables persistence.
func buildResultSink(ctx context.Context, cfg *config.Config, s *stores, log logger.Logger) (pipeline.ResultSink, error) {
	var sinks []sink.Sink
	if s.postgres != nil {
		sinks = append(sinks, sink.NewPostgresSink(s.postgres.DB, log))
	}

	if sns := cfg.Notifications.SNS; sns.Enabled {
		client, err := aws.NewSNSClient(ctx, sns.Region)
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		sinks = append(sinks, sink.NewSNSSink(client, sns.TopicARN, log))
	}

	if len(sinks) == 0 {
		return nil, nil
	}
	return sink.NewMulti(sinks...), nil
}
