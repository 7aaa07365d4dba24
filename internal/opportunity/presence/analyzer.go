package presence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/common/metrics"
	"crosslaunch-workers/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("crosslaunch-workers/presence")

// Analyzer measures the three sub-signals for one market concurrently and
// aggregates them once all three have answered.
type Analyzer struct {
	github DeveloperActivitySource
	news   MediaCoverageSource
	trends SearchInterestSource
	logger logger.Logger
}

func NewAnalyzer(github DeveloperActivitySource, news MediaCoverageSource, trends SearchInterestSource, log logger.Logger) *Analyzer {
	return &Analyzer{
		github: github,
		news:   news,
		trends: trends,
		logger: log,
	}
}

// Measure returns an error only when the market as a whole cannot be measured:
// the context ended or a source broke its contract by panicking. Ordinary
// upstream failures arrive as degraded results and are recorded on the signals.
func (a *Analyzer) Measure(ctx context.Context, keywords []string, country string) (*models.PresenceSignals, error) {
	ctx, span := tracer.Start(ctx, "presence.measure")
	span.SetAttributes(attribute.String("country", country), attribute.Int("keywords", len(keywords)))
	defer span.End()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		github Result[models.DeveloperActivity]
		news   Result[models.MediaCoverage]
		trends Result[models.SearchInterest]
		panics []error
	)

	run := func(name string, measure func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					panics = append(panics, fmt.Errorf("source %s panicked: %v", name, r))
					mu.Unlock()
				}
			}()
			start := time.Now()
			measure()
			metrics.SignalDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		}()
	}

	run(a.github.Name(), func() { github = a.github.Measure(ctx, country, keywords) })
	run(a.news.Name(), func() { news = a.news.Measure(ctx, country, keywords) })
	run(a.trends.Name(), func() { trends = a.trends.Measure(ctx, country, keywords) })
	wg.Wait()

	if len(panics) > 0 {
		span.SetStatus(codes.Error, panics[0].Error())
		return nil, panics[0]
	}
	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("presence measurement for %s: %w", country, err)
	}

	signals := &models.PresenceSignals{
		GitHub:  github.Metrics,
		News:    news.Metrics,
		Trends:  trends.Metrics,
		Overall: Aggregate(github.Metrics, news.Metrics, trends.Metrics),
	}

	a.record(signals, a.github.Name(), github.Err)
	a.record(signals, a.news.Name(), news.Err)
	a.record(signals, a.trends.Name(), trends.Err)

	span.SetAttributes(attribute.String("presence_level", string(signals.Overall.PresenceLevel)))
	a.logger.Debug("presence measured", map[string]interface{}{
		"country":         country,
		"presenceLevel":   signals.Overall.PresenceLevel,
		"signalCount":     signals.Overall.SignalCount,
		"degradedSources": signals.DegradedSources,
	})
	return signals, nil
}

func (a *Analyzer) record(signals *models.PresenceSignals, source string, cause error) {
	if cause == nil {
		metrics.SignalMeasurements.WithLabelValues(source, "measured").Inc()
		return
	}
	metrics.SignalMeasurements.WithLabelValues(source, "degraded").Inc()
	signals.DegradedSources = append(signals.DegradedSources, source)
}
