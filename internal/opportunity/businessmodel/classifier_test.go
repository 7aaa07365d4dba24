package businessmodel

import (
	"testing"

	"crosslaunch-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Catalog
// ==========================

func TestLookup(t *testing.T) {
	m, ok := Lookup("affirm")
	require.True(t, ok)
	assert.Equal(t, "Buy Now Pay Later (BNPL)", m.Name)
	assert.Equal(t, "Fintech", m.Category)
	assert.Equal(t, models.ComplexityHigh, m.RegulatoryComplexity)

	_, ok = Lookup("affirmative")
	assert.False(t, ok)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	m, _ := Lookup("zoom")
	m.Keywords[0] = "mutated"

	again, _ := Lookup("zoom")
	assert.Equal(t, "video call", again.Keywords[0])
}

func TestCatalogTokensDoNotOverlap(t *testing.T) {
	tokens := Tokens()
	for i, a := range tokens {
		for j, b := range tokens {
			if i == j {
				continue
			}
			assert.NotContains(t, a, b, "token %q shadows %q", b, a)
		}
	}
}

// ==========================
// Identify
// ==========================

func TestIdentify_ByName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"exact brand", "Robinhood", "Commission-free Trading"},
		{"brand inside phrase", "a doordash for pets", "Food Delivery Marketplace"},
		{"catalog order wins", "notion meets canva", "Online Design Tool"},
		{"case insensitive", "  DUOLINGO clone ", "Gamified Learning Platform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identify(models.BusinessModelInput{Name: tt.input})
			assert.Equal(t, tt.expected, got.Name)
		})
	}
}

func TestIdentify_ByURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"www prefix stripped", "https://www.affirm.com/x", "Buy Now Pay Later (BNPL)"},
		{"scheme added", "calendly.com", "Scheduling Tool"},
		{"upper case host", "http://Substack.COM", "Newsletter Platform"},
		{"no substring match", "https://notarealaffirmclone.io", "Digital Platform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identify(models.BusinessModelInput{URL: tt.url})
			assert.Equal(t, tt.expected, got.Name)
		})
	}
}

func TestIdentify_NameMissFallsThroughToURL(t *testing.T) {
	got := Identify(models.BusinessModelInput{Name: "my startup", URL: "https://zoom.us"})
	assert.Equal(t, "Video Conferencing", got.Name)
}

func TestIdentify_KeywordFallback(t *testing.T) {
	tests := []struct {
		name        string
		description string
		keywords    []string
		category    string
	}{
		{"fintech", "peer to peer loan app", nil, "Fintech"},
		{"marketplace", "food delivery marketplace", nil, "Marketplace"},
		{"saas", "workflow automation", nil, "SaaS"},
		{"education", "online course for kids", nil, "Education"},
		{"communication", "", []string{"messaging"}, "Communication"},
		{"ecommerce", "handmade shop", nil, "E-commerce"},
		{"earlier group wins", "payment marketplace", nil, "Fintech"},
		{"keywords and description joined", "for restaurants", []string{"booking"}, "Marketplace"},
		{"default", "something unusual", nil, "Technology"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identify(models.BusinessModelInput{Description: tt.description, Keywords: tt.keywords})
			assert.Equal(t, tt.category, got.Category)
		})
	}
}

func TestIdentify_AlwaysComplete(t *testing.T) {
	inputs := []models.BusinessModelInput{
		{},
		{URL: "::::"},
		{Name: "x"},
		{Description: "banking"},
	}

	for _, in := range inputs {
		m := Identify(in)
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Keywords)
		assert.NotEmpty(t, m.Category)
		assert.NotEmpty(t, m.BusinessType)
		assert.NotEmpty(t, m.TechnicalComplexity)
		assert.NotEmpty(t, m.RegulatoryComplexity)
	}
}

func TestKeywordsFor(t *testing.T) {
	m, _ := Lookup("doordash")
	assert.Equal(t,
		[]string{"food delivery", "restaurant delivery", "meal delivery", "food delivery marketplace", "marketplace"},
		KeywordsFor(m))
}
