// Package presence measures how much existing developer, media and search
// activity a business model has in a country, and folds the three measurements
// into one presence verdict.
package presence

import (
	"context"
	"errors"
	"math"

	"crosslaunch-workers/internal/models"
)

var (
	ErrRateLimited = errors.New("upstream rate limit exceeded")
	ErrUpstream    = errors.New("upstream request failed")
)

// Source measures one presence sub-signal. Implementations never return an
// error directly: upstream failures come back as a degraded Result holding
// neutral metrics, so a single outage cannot abort a market analysis.
type Source[M any] interface {
	Name() string
	Measure(ctx context.Context, country string, keywords []string) Result[M]
}

type (
	DeveloperActivitySource = Source[models.DeveloperActivity]
	MediaCoverageSource     = Source[models.MediaCoverage]
	SearchInterestSource    = Source[models.SearchInterest]
)

// Result is either a measured value or a degraded neutral value with its cause.
type Result[M any] struct {
	Metrics M
	Err     error
}

func Measured[M any](m M) Result[M] {
	return Result[M]{Metrics: m}
}

func Degraded[M any](neutral M, cause error) Result[M] {
	return Result[M]{Metrics: neutral, Err: cause}
}

func (r Result[M]) IsDegraded() bool {
	return r.Err != nil
}

func NeutralDeveloperActivity() models.DeveloperActivity {
	return models.DeveloperActivity{Languages: []string{}}
}

func NeutralMediaCoverage() models.MediaCoverage {
	return models.MediaCoverage{TopSources: []string{}}
}

func NeutralSearchInterest() models.SearchInterest {
	return models.SearchInterest{TrendDirection: models.TrendStable}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func minf(v int, limit float64) float64 {
	return math.Min(float64(v), limit)
}
