package presence

import (
	"math"

	"crosslaunch-workers/internal/models"
)

const (
	strongThreshold   = 5.0
	moderateThreshold = 2.0

	LabelActiveDevelopers  = "Active developer community"
	LabelMediaCoverage     = "Media coverage present"
	LabelHighSearch        = "High search interest"
	LabelRecentDevelopment = "Recent development activity"
	LabelRecentMedia       = "Recent media mentions"
	LabelGrowingSearch     = "Growing search interest"
)

var presenceConfidence = map[models.PresenceLevel]float64{
	models.PresenceHigh:   0.9,
	models.PresenceMedium: 0.75,
	models.PresenceLow:    0.6,
	models.PresenceNone:   0.4,
}

// Aggregate folds the three sub-signals into one presence verdict. Strong
// signals are listed in evaluation order: the three scores first, then the
// recency and trend signals.
func Aggregate(github models.DeveloperActivity, news models.MediaCoverage, trends models.SearchInterest) models.OverallPresence {
	strong := []string{}
	signalCount := 0

	grade := func(score float64, label string) {
		switch {
		case score >= strongThreshold:
			strong = append(strong, label)
			signalCount++
		case score >= moderateThreshold:
			signalCount++
		}
	}
	grade(github.ActivityScore, LabelActiveDevelopers)
	grade(news.CoverageScore, LabelMediaCoverage)
	grade(trends.InterestScore, LabelHighSearch)

	if github.RecentRepos > 5 {
		strong = append(strong, LabelRecentDevelopment)
	}
	if news.RecentMentions > 10 {
		strong = append(strong, LabelRecentMedia)
	}
	if trends.TrendDirection == models.TrendUp {
		strong = append(strong, LabelGrowingSearch)
	}

	average := (github.ActivityScore + news.CoverageScore + trends.InterestScore) / 3

	var level models.PresenceLevel
	switch {
	case len(strong) >= 3 || average >= 7:
		level = models.PresenceHigh
	case len(strong) >= 2 || average >= 5:
		level = models.PresenceMedium
	case signalCount >= 2 || average >= 2:
		level = models.PresenceLow
	default:
		level = models.PresenceNone
	}

	return models.OverallPresence{
		PresenceLevel: level,
		Confidence:    math.Round(presenceConfidence[level]*100) / 100,
		SignalCount:   signalCount,
		StrongSignals: strong,
	}
}
