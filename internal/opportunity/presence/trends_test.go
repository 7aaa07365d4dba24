package presence

import (
	"context"
	"testing"

	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestTrendsSource_Measure(t *testing.T) {
	tests := []struct {
		name      string
		country   string
		keywords  []string
		jitter    FixedJitter
		interest  int
		direction models.TrendDirection
		score     float64
	}{
		{"popular model in high-multiplier market", "IN", []string{"food delivery", "restaurant"}, 0.5, 42, models.TrendStable, 3.1},
		{"country code is case-insensitive", "in", []string{"Food Delivery"}, 0.5, 42, models.TrendStable, 3.1},
		{"unknown country uses neutral multiplier", "KE", []string{"video call"}, 0.5, 30, models.TrendStable, 2.5},
		{"niche model has no interest", "BR", []string{"industrial iot"}, 0.9, 0, models.TrendDown, 0},
		{"low jitter pulls popular model down", "MX", []string{"design"}, 0, 21, models.TrendStable, 2.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewTrendsSource(tt.jitter, logger.NewNoOpLogger())
			result := source.Measure(context.Background(), tt.country, tt.keywords)

			assert.False(t, result.IsDegraded())
			assert.Equal(t, tt.interest, result.Metrics.Interest)
			assert.Equal(t, tt.interest*100, result.Metrics.SearchVolume)
			assert.Equal(t, tt.direction, result.Metrics.TrendDirection)
			assert.InDelta(t, tt.score, result.Metrics.InterestScore, 0.051)
		})
	}
}

func TestTrendsSource_DefaultJitterStaysInRange(t *testing.T) {
	source := NewTrendsSource(nil, logger.NewNoOpLogger())
	for i := 0; i < 200; i++ {
		m := source.Measure(context.Background(), "ID", []string{"stock trading"}).Metrics
		// 30 * 1.3 * [0.7, 1.3)
		assert.GreaterOrEqual(t, m.Interest, 27)
		assert.LessOrEqual(t, m.Interest, 51)
		assert.GreaterOrEqual(t, m.InterestScore, 0.0)
		assert.LessOrEqual(t, m.InterestScore, 10.0)
	}
}

func TestInterestScore(t *testing.T) {
	assert.InDelta(t, 7.0, interestScore(80, models.TrendUp, true), 1e-9)
	assert.InDelta(t, 0.0, interestScore(10, models.TrendDown, false), 1e-9)
	assert.InDelta(t, 8.0, interestScore(100, models.TrendUp, true), 1e-9)
	assert.InDelta(t, 2.5, interestScore(50, models.TrendStable, false), 1e-9)
}
