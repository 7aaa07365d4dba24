package presence

import (
	"context"
	"math"
	"math/rand"
	"strings"

	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/models"
)

const (
	TrendsSourceName = "trends"

	popularInterestBoost = 30.0
	jitterFloor          = 0.7
	jitterSpan           = 0.6
)

var popularBusinessModels = []string{
	"food delivery", "video call", "language learning",
	"stock trading", "design", "productivity",
}

var countryInterestMultipliers = map[string]float64{
	"BR": 1.2,
	"IN": 1.4,
	"NG": 1.1,
	"ID": 1.3,
	"MX": 1.0,
}

// Jitter yields values in [0, 1). It stands in for the noise of a live trends
// feed and is injectable so tests can pin it.
type Jitter interface {
	Float64() float64
}

type JitterFunc func() float64

func (f JitterFunc) Float64() float64 { return f() }

// FixedJitter always returns the same draw; 0.5 gives a neutral 1.0 factor.
type FixedJitter float64

func (f FixedJitter) Float64() float64 { return float64(f) }

// TrendsSource estimates search interest without a live query.
type TrendsSource struct {
	jitter Jitter
	logger logger.Logger
}

func NewTrendsSource(jitter Jitter, log logger.Logger) *TrendsSource {
	if jitter == nil {
		jitter = JitterFunc(rand.Float64)
	}
	return &TrendsSource{
		jitter: jitter,
		logger: log.WithFields(map[string]interface{}{"source": TrendsSourceName}),
	}
}

func (s *TrendsSource) Name() string { return TrendsSourceName }

func (s *TrendsSource) Measure(_ context.Context, country string, keywords []string) Result[models.SearchInterest] {
	popular := hasPopularKeyword(keywords)

	base := 0.0
	if popular {
		base = popularInterestBoost
	}
	base *= countryMultiplier(country)
	base *= jitterFloor + s.jitter.Float64()*jitterSpan

	interest := int(clamp(math.Round(base), 0, 100))

	direction := models.TrendStable
	switch {
	case interest > 60:
		direction = models.TrendUp
	case interest < 20:
		direction = models.TrendDown
	}

	s.logger.Debug("search interest estimated", map[string]interface{}{
		"country":  country,
		"interest": interest,
		"popular":  popular,
	})

	return Measured(models.SearchInterest{
		SearchVolume:   interest * 100,
		Interest:       interest,
		TrendDirection: direction,
		InterestScore:  interestScore(interest, direction, popular),
	})
}

func hasPopularKeyword(keywords []string) bool {
	for _, kw := range keywords {
		lower := strings.ToLower(kw)
		for _, p := range popularBusinessModels {
			if strings.Contains(lower, p) {
				return true
			}
		}
	}
	return false
}

func countryMultiplier(country string) float64 {
	if m, ok := countryInterestMultipliers[strings.ToUpper(country)]; ok {
		return m
	}
	return 1.0
}

func interestScore(interest int, direction models.TrendDirection, popular bool) float64 {
	score := float64(interest) / 100 * 5
	switch direction {
	case models.TrendUp:
		score += 2
	case models.TrendDown:
		score--
	}
	if popular {
		score++
	}
	return round1(clamp(score, 0, 10))
}
