// Package scoring turns presence signals and a market profile into a weighted
// opportunity score. Everything here is a pure function of its inputs.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"crosslaunch-workers/internal/models"
)

const (
	weightMarketGap       = 0.35
	weightMarketSize      = 0.25
	weightMarketReadiness = 0.25
	weightCompetition     = 0.15
)

const (
	RecommendationExcellent = "Excellent opportunity - high market gap with favorable conditions"
	RecommendationStrong    = "Strong opportunity - good market potential with manageable competition"
	RecommendationModerate  = "Moderate opportunity - consider market entry strategy carefully"
	RecommendationLimited   = "Limited opportunity - significant challenges or competition present"
	RecommendationPoor      = "Poor opportunity - high competition or unfavorable market conditions"
)

// Score computes the opportunity verdict for one business model in one market.
//
// MarketGap and CompetitionLevel are both derived from the mean presence
// score, once inverted and once as-is. The overall weighting therefore counts
// existing presence twice (at 0.35 and 0.15); rankings depend on that.
func Score(signals models.PresenceSignals, market models.Market, bm models.BusinessModel) models.OpportunityScore {
	presence := signals.MeanScore()

	breakdown := models.ScoreBreakdown{
		MarketGap:        math.Max(0, 10-presence),
		MarketSize:       marketSize(market, bm),
		MarketReadiness:  marketReadiness(market, bm),
		CompetitionLevel: presence,
	}

	overall := overallScore(breakdown)

	return models.OpportunityScore{
		Overall:            overall,
		Breakdown:          breakdown,
		Reasoning:          reasoning(breakdown, signals, market, bm),
		CompetitionLevel:   signals.Overall.PresenceLevel,
		MarketSizeCategory: SizeCategory(market.Population),
		Recommendation:     Recommendation(overall),
	}
}

func marketSize(m models.Market, bm models.BusinessModel) float64 {
	score := 0.0

	switch {
	case m.Population > 200_000_000:
		score += 4
	case m.Population > 100_000_000:
		score += 3
	case m.Population > 50_000_000:
		score += 2
	default:
		score += 1
	}

	score += m.InternetPenetration / 100 * 3

	switch {
	case m.GDPPerCapita > 8000:
		score += 2
	case m.GDPPerCapita > 4000:
		score += 1.5
	case m.GDPPerCapita > 2000:
		score += 1
	default:
		score += 0.5
	}

	if (bm.BusinessType == models.BusinessTypeB2C && m.InternetPenetration > 60) ||
		(bm.BusinessType == models.BusinessTypeB2B && m.GDPPerCapita > 5000) {
		score++
	}

	return math.Min(score, 10)
}

func marketReadiness(m models.Market, bm models.BusinessModel) float64 {
	score := m.InternetPenetration / 100 * 4

	switch {
	case m.GDPPerCapita > 5000:
		score += 3
	case m.GDPPerCapita > 2500:
		score += 2
	default:
		score += 1
	}

	switch bm.TechnicalComplexity {
	case models.ComplexityHigh:
		score--
	case models.ComplexityMedium:
		score -= 0.5
	}

	switch bm.RegulatoryComplexity {
	case models.ComplexityHigh:
		score -= 1.5
	case models.ComplexityMedium:
		score -= 0.5
	}

	if m.SpeaksLanguage("English") {
		score++
	}
	if len(m.AppStores) >= 2 {
		score++
	}

	return math.Max(0, math.Min(score, 10))
}

func overallScore(b models.ScoreBreakdown) float64 {
	score := b.MarketGap*weightMarketGap +
		b.MarketSize*weightMarketSize +
		b.MarketReadiness*weightMarketReadiness +
		(10-b.CompetitionLevel)*weightCompetition
	return math.Round(score*10) / 10
}

func reasoning(b models.ScoreBreakdown, signals models.PresenceSignals, m models.Market, bm models.BusinessModel) []string {
	out := []string{}

	switch {
	case b.MarketGap >= 7:
		out = append(out, "Minimal existing competition detected")
	case b.MarketGap >= 4:
		out = append(out, "Limited market presence found")
	default:
		out = append(out, "Established players present in market")
	}

	if m.Population > 200_000_000 {
		out = append(out, fmt.Sprintf("Large addressable market (%.0fM population)", float64(m.Population)/1_000_000))
	}

	switch {
	case m.InternetPenetration >= 70:
		out = append(out, "High internet adoption supports digital business models")
	case m.InternetPenetration >= 50:
		out = append(out, "Growing internet adoption creates emerging opportunities")
	}

	switch {
	case m.GDPPerCapita > 5000:
		out = append(out, "Strong purchasing power in target market")
	case m.GDPPerCapita > 2000:
		out = append(out, "Emerging middle class with growing spending power")
	}

	switch bm.TechnicalComplexity {
	case models.ComplexityLow:
		out = append(out, "Low technical barriers to entry")
	case models.ComplexityHigh:
		out = append(out, "High technical complexity may limit competitors")
	}

	if strong := signals.Overall.StrongSignals; len(strong) > 0 {
		out = append(out, "Market shows interest: "+strings.ToLower(strong[0]))
	}

	return out
}

// SizeCategory buckets a population into small, medium or large.
func SizeCategory(population int64) models.MarketSizeCategory {
	switch {
	case population > 200_000_000:
		return models.MarketSizeLarge
	case population > 50_000_000:
		return models.MarketSizeMedium
	default:
		return models.MarketSizeSmall
	}
}

// Recommendation maps an overall score onto its fixed recommendation sentence.
func Recommendation(overall float64) string {
	switch {
	case overall >= 8:
		return RecommendationExcellent
	case overall >= 6.5:
		return RecommendationStrong
	case overall >= 5:
		return RecommendationModerate
	case overall >= 3:
		return RecommendationLimited
	default:
		return RecommendationPoor
	}
}
