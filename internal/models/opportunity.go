// internal/models/opportunity.go
package models

import "time"

// MarketSizeCategory buckets a market by population.
type MarketSizeCategory string

const (
	MarketSizeSmall  MarketSizeCategory = "small"
	MarketSizeMedium MarketSizeCategory = "medium"
	MarketSizeLarge  MarketSizeCategory = "large"
)

// ScoreBreakdown holds the four weighted components of an opportunity score.
type ScoreBreakdown struct {
	MarketGap        float64 `json:"marketGap"`
	MarketSize       float64 `json:"marketSize"`
	MarketReadiness  float64 `json:"marketReadiness"`
	CompetitionLevel float64 `json:"competitionLevel"`
}

// OpportunityScore is the final verdict for one (business model, market) pair.
type OpportunityScore struct {
	Overall            float64            `json:"overall"`
	Breakdown          ScoreBreakdown     `json:"breakdown"`
	Reasoning          []string           `json:"reasoning"`
	CompetitionLevel   PresenceLevel      `json:"competitionLevel"`
	MarketSizeCategory MarketSizeCategory `json:"marketSizeCategory"`
	Recommendation     string             `json:"recommendation"`
}

// OpportunityStatus distinguishes a fully analyzed market from a degraded one.
type OpportunityStatus string

const (
	OpportunityAnalyzed OpportunityStatus = "analyzed"
	OpportunityFailed   OpportunityStatus = "failed"
)

// Opportunity is one ranked row of an analysis result.
type Opportunity struct {
	Country          string            `json:"country"`
	CountryCode      string            `json:"countryCode"`
	Score            float64           `json:"score"`
	CompetitionLevel PresenceLevel     `json:"competitionLevel"`
	MarketSize       int64             `json:"marketSize"`
	PresenceSignals  *PresenceSignals  `json:"presenceSignals"`
	OpportunityScore *OpportunityScore `json:"opportunityScore"`
	QuickInsights    []string          `json:"quickInsights"`
	Status           OpportunityStatus `json:"status"`
}

// AnalysisResult is what one pipeline run produces.
type AnalysisResult struct {
	SearchID          string        `json:"searchId,omitempty"`
	BusinessModel     BusinessModel `json:"businessModel"`
	Opportunities     []Opportunity `json:"opportunities"`
	AnalysisTimestamp time.Time     `json:"analysisTimestamp"`
}
