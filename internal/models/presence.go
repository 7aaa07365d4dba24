// internal/models/presence.go
package models

// PresenceLevel summarizes how much existing activity a business model has in a market.
type PresenceLevel string

const (
	PresenceNone   PresenceLevel = "none"
	PresenceLow    PresenceLevel = "low"
	PresenceMedium PresenceLevel = "medium"
	PresenceHigh   PresenceLevel = "high"
)

// TrendDirection of search interest.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// DeveloperActivity is measured from a code-hosting index.
type DeveloperActivity struct {
	RepoCount     int      `json:"repoCount"`
	TotalStars    int      `json:"totalStars"`
	RecentRepos   int      `json:"recentRepos"`
	Languages     []string `json:"languages"`
	ActivityScore float64  `json:"activityScore"`
}

// MediaCoverage is measured from a news index.
type MediaCoverage struct {
	ArticleCount    int      `json:"articleCount"`
	RecentMentions  int      `json:"recentMentions"`
	SourceDiversity int      `json:"sourceDiversity"`
	CoverageScore   float64  `json:"coverageScore"`
	TopSources      []string `json:"topSources"`
}

// SearchInterest is a derived estimate of search demand.
type SearchInterest struct {
	SearchVolume   int            `json:"searchVolume"`
	Interest       int            `json:"interest"`
	TrendDirection TrendDirection `json:"trendDirection"`
	InterestScore  float64        `json:"interestScore"`
}

// OverallPresence is the aggregate verdict over the three sub-signals.
type OverallPresence struct {
	PresenceLevel PresenceLevel `json:"presenceLevel"`
	Confidence    float64       `json:"confidence"`
	SignalCount   int           `json:"signalCount"`
	StrongSignals []string      `json:"strongSignals"`
}

// PresenceSignals is the per (business model, country) measurement.
type PresenceSignals struct {
	GitHub  DeveloperActivity `json:"github"`
	News    MediaCoverage     `json:"news"`
	Trends  SearchInterest    `json:"trends"`
	Overall OverallPresence   `json:"overall"`

	// DegradedSources lists the sources that answered with neutral metrics
	// because their upstream failed.
	DegradedSources []string `json:"degradedSources,omitempty"`
}

// MeanScore is the average of the three raw sub-signal scores.
func (p *PresenceSignals) MeanScore() float64 {
	return (p.GitHub.ActivityScore + p.News.CoverageScore + p.Trends.InterestScore) / 3
}
