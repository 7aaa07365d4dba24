package presence

import (
	"testing"

	"crosslaunch-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func signals(gh, news, trends float64) (models.DeveloperActivity, models.MediaCoverage, models.SearchInterest) {
	return models.DeveloperActivity{ActivityScore: gh},
		models.MediaCoverage{CoverageScore: news},
		models.SearchInterest{InterestScore: trends, TrendDirection: models.TrendStable}
}

func TestAggregate_Levels(t *testing.T) {
	tests := []struct {
		name        string
		gh, nw, tr  float64
		level       models.PresenceLevel
		confidence  float64
		signalCount int
		strong      []string
	}{
		{"all strong", 8, 8, 8, models.PresenceHigh, 0.9, 3, []string{LabelActiveDevelopers, LabelMediaCoverage, LabelHighSearch}},
		{"nothing at all", 0, 0, 0, models.PresenceNone, 0.4, 0, []string{}},
		{"two strong", 6, 5, 0, models.PresenceMedium, 0.75, 2, []string{LabelActiveDevelopers, LabelMediaCoverage}},
		{"moderate signals only", 3, 2, 1, models.PresenceLow, 0.6, 2, []string{}},
		{"single moderate below average floor", 2.5, 0, 0, models.PresenceNone, 0.4, 1, []string{}},
		{"moderate everywhere stays low", 4.9, 4.9, 4.9, models.PresenceLow, 0.6, 3, []string{}},
		{"average of seven is high", 9, 9, 3, models.PresenceHigh, 0.9, 3, []string{LabelActiveDevelopers, LabelMediaCoverage}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gh, nw, tr := signals(tt.gh, tt.nw, tt.tr)
			got := Aggregate(gh, nw, tr)

			assert.Equal(t, tt.level, got.PresenceLevel)
			assert.Equal(t, tt.confidence, got.Confidence)
			assert.Equal(t, tt.signalCount, got.SignalCount)
			assert.Equal(t, tt.strong, got.StrongSignals)
		})
	}
}

func TestAggregate_RecencyAndTrendSignals(t *testing.T) {
	gh := models.DeveloperActivity{ActivityScore: 1, RecentRepos: 6}
	nw := models.MediaCoverage{CoverageScore: 1, RecentMentions: 11}
	tr := models.SearchInterest{InterestScore: 1, TrendDirection: models.TrendUp}

	got := Aggregate(gh, nw, tr)

	assert.Equal(t, []string{LabelRecentDevelopment, LabelRecentMedia, LabelGrowingSearch}, got.StrongSignals)
	assert.Equal(t, 0, got.SignalCount)
	assert.Equal(t, models.PresenceHigh, got.PresenceLevel)
}

func TestAggregate_RecencyThresholdsAreStrict(t *testing.T) {
	gh := models.DeveloperActivity{RecentRepos: 5}
	nw := models.MediaCoverage{RecentMentions: 10}
	tr := models.SearchInterest{TrendDirection: models.TrendDown}

	got := Aggregate(gh, nw, tr)

	assert.Empty(t, got.StrongSignals)
	assert.Equal(t, models.PresenceNone, got.PresenceLevel)
}
