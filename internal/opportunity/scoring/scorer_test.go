package scoring

import (
	"testing"

	"crosslaunch-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fixtures
// ==========================

func brazil() models.Market {
	return models.Market{
		CountryCode:         "BR",
		CountryName:         "Brazil",
		Population:          214_000_000,
		InternetPenetration: 81,
		GDPPerCapita:        8900,
		Languages:           []string{"Portuguese"},
		AppStores:           []string{"Google Play", "App Store"},
	}
}

func nigeria() models.Market {
	return models.Market{
		CountryCode:         "NG",
		CountryName:         "Nigeria",
		Population:          218_000_000,
		InternetPenetration: 55,
		GDPPerCapita:        2100,
		Languages:           []string{"English", "Hausa", "Yoruba", "Igbo"},
		AppStores:           []string{"Google Play", "App Store"},
	}
}

func presence(gh, news, trends float64, level models.PresenceLevel, strong ...string) models.PresenceSignals {
	if strong == nil {
		strong = []string{}
	}
	return models.PresenceSignals{
		GitHub:  models.DeveloperActivity{ActivityScore: gh},
		News:    models.MediaCoverage{CoverageScore: news},
		Trends:  models.SearchInterest{InterestScore: trends},
		Overall: models.OverallPresence{PresenceLevel: level, StrongSignals: strong},
	}
}

var foodDelivery = models.BusinessModel{
	Name:                 "Food Delivery Marketplace",
	Category:             "Marketplace",
	BusinessType:         models.BusinessTypeB2C,
	TechnicalComplexity:  models.ComplexityMedium,
	RegulatoryComplexity: models.ComplexityMedium,
}

var scheduling = models.BusinessModel{
	Name:                 "Scheduling Tool",
	Category:             "SaaS",
	BusinessType:         models.BusinessTypeB2B,
	TechnicalComplexity:  models.ComplexityLow,
	RegulatoryComplexity: models.ComplexityLow,
}

// ==========================
// Score
// ==========================

func TestScore_ModeratePresenceLargeMarket(t *testing.T) {
	signals := presence(6, 3, 3, models.PresenceMedium, "Active developer community")

	got := Score(signals, brazil(), foodDelivery)

	assert.InDelta(t, 6.0, got.Breakdown.MarketGap, 1e-9)
	assert.InDelta(t, 9.43, got.Breakdown.MarketSize, 1e-9)
	assert.InDelta(t, 6.24, got.Breakdown.MarketReadiness, 1e-9)
	assert.InDelta(t, 4.0, got.Breakdown.CompetitionLevel, 1e-9)
	assert.Equal(t, 6.9, got.Overall)
	assert.Equal(t, RecommendationStrong, got.Recommendation)
	assert.Equal(t, models.PresenceMedium, got.CompetitionLevel)
	assert.Equal(t, models.MarketSizeLarge, got.MarketSizeCategory)
	assert.Equal(t, []string{
		"Limited market presence found",
		"Large addressable market (214M population)",
		"High internet adoption supports digital business models",
		"Strong purchasing power in target market",
		"Market shows interest: active developer community",
	}, got.Reasoning)
}

func TestScore_EmptyMarketWithEnglish(t *testing.T) {
	got := Score(presence(0, 0, 0, models.PresenceNone), nigeria(), scheduling)

	assert.InDelta(t, 10.0, got.Breakdown.MarketGap, 1e-9)
	// B2B bonus needs GDP above 5000, so none here
	assert.InDelta(t, 6.65, got.Breakdown.MarketSize, 1e-9)
	assert.InDelta(t, 5.2, got.Breakdown.MarketReadiness, 1e-9)
	assert.Equal(t, 8.0, got.Overall)
	assert.Equal(t, RecommendationExcellent, got.Recommendation)
	assert.Equal(t, []string{
		"Minimal existing competition detected",
		"Large addressable market (218M population)",
		"Growing internet adoption creates emerging opportunities",
		"Emerging middle class with growing spending power",
		"Low technical barriers to entry",
	}, got.Reasoning)
}

func TestScore_SaturatedSmallMarket(t *testing.T) {
	market := models.Market{
		CountryCode:         "XX",
		Population:          10_000_000,
		InternetPenetration: 20,
		GDPPerCapita:        1000,
		Languages:           []string{"Other"},
		AppStores:           []string{"Google Play"},
	}
	bm := models.BusinessModel{
		BusinessType:         models.BusinessTypeB2C,
		TechnicalComplexity:  models.ComplexityHigh,
		RegulatoryComplexity: models.ComplexityHigh,
	}

	got := Score(presence(10, 10, 10, models.PresenceHigh, "Active developer community"), market, bm)

	assert.Equal(t, 0.0, got.Breakdown.MarketGap)
	assert.Equal(t, 0.0, got.Breakdown.MarketReadiness, "readiness is clamped at zero")
	assert.InDelta(t, 2.1, got.Breakdown.MarketSize, 1e-9)
	assert.Equal(t, 0.5, got.Overall)
	assert.Equal(t, RecommendationPoor, got.Recommendation)
	assert.Equal(t, models.MarketSizeSmall, got.MarketSizeCategory)
	assert.Equal(t, models.PresenceHigh, got.CompetitionLevel)
	assert.Equal(t, []string{
		"Established players present in market",
		"High technical complexity may limit competitors",
		"Market shows interest: active developer community",
	}, got.Reasoning)
}

func TestScore_MarketSizeCappedAtTen(t *testing.T) {
	market := models.Market{Population: 300_000_000, InternetPenetration: 100, GDPPerCapita: 10000}
	got := Score(presence(0, 0, 0, models.PresenceNone), market, foodDelivery)
	assert.Equal(t, 10.0, got.Breakdown.MarketSize)
}

func TestScore_IsDeterministic(t *testing.T) {
	signals := presence(4.2, 1.9, 3.1, models.PresenceLow, "Growing search interest")
	first := Score(signals, brazil(), foodDelivery)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, Score(signals, brazil(), foodDelivery))
	}
}

func TestScore_GapComplementsMeanPresence(t *testing.T) {
	values := []float64{0, 0.5, 2.3, 5, 7.7, 10}
	for _, gh := range values {
		for _, nw := range values {
			for _, tr := range values {
				got := Score(presence(gh, nw, tr, models.PresenceLow), nigeria(), scheduling)
				mean := (gh + nw + tr) / 3

				assert.InDelta(t, 10.0, got.Breakdown.MarketGap+mean, 1e-9)
				assert.InDelta(t, mean, got.Breakdown.CompetitionLevel, 1e-9)
				assert.GreaterOrEqual(t, got.Overall, 0.0)
				assert.LessOrEqual(t, got.Overall, 10.0)
			}
		}
	}
}

// ==========================
// Ladders
// ==========================

func TestRecommendation(t *testing.T) {
	tests := []struct {
		overall  float64
		expected string
	}{
		{10, RecommendationExcellent},
		{8, RecommendationExcellent},
		{7.9, RecommendationStrong},
		{6.5, RecommendationStrong},
		{6.4, RecommendationModerate},
		{5, RecommendationModerate},
		{4.9, RecommendationLimited},
		{3, RecommendationLimited},
		{2.9, RecommendationPoor},
		{0, RecommendationPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Recommendation(tt.overall), "overall=%v", tt.overall)
	}
}

func TestSizeCategory(t *testing.T) {
	assert.Equal(t, models.MarketSizeLarge, SizeCategory(200_000_001))
	assert.Equal(t, models.MarketSizeMedium, SizeCategory(200_000_000))
	assert.Equal(t, models.MarketSizeMedium, SizeCategory(50_000_001))
	assert.Equal(t, models.MarketSizeSmall, SizeCategory(50_000_000))
	assert.Equal(t, models.MarketSizeSmall, SizeCategory(0))
}
