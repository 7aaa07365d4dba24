// Package businessmodel resolves free-form startup descriptions into one of a
// fixed set of business-model profiles.
package businessmodel

import (
	"crosslaunch-workers/internal/models"
)

type catalogEntry struct {
	token string
	model models.BusinessModel
}

// catalog is evaluated top to bottom; the first token contained in a name wins.
// Tokens are brand names long enough not to collide as substrings of each other.
var catalog = []catalogEntry{
	{"affirm", profile("Buy Now Pay Later (BNPL)", "Fintech", models.BusinessTypeB2C, models.ComplexityMedium, models.ComplexityHigh,
		"buy now pay later", "installment", "financing", "payment plans")},
	{"doordash", profile("Food Delivery Marketplace", "Marketplace", models.BusinessTypeB2C, models.ComplexityMedium, models.ComplexityMedium,
		"food delivery", "restaurant delivery", "meal delivery")},
	{"robinhood", profile("Commission-free Trading", "Fintech", models.BusinessTypeB2C, models.ComplexityHigh, models.ComplexityHigh,
		"stock trading", "investing", "commission-free", "retail trading")},
	{"duolingo", profile("Gamified Learning Platform", "Education", models.BusinessTypeB2C, models.ComplexityMedium, models.ComplexityLow,
		"language learning", "education", "gamification", "mobile learning")},
	{"canva", profile("Online Design Tool", "SaaS", models.BusinessTypeB2C, models.ComplexityMedium, models.ComplexityLow,
		"graphic design", "templates", "design tool", "visual content")},
	{"notion", profile("All-in-one Workspace", "Productivity", models.BusinessTypeB2B2C, models.ComplexityMedium, models.ComplexityLow,
		"notes", "productivity", "collaboration", "workspace", "documentation")},
	{"discord", profile("Community Chat Platform", "Communication", models.BusinessTypeB2C, models.ComplexityMedium, models.ComplexityLow,
		"chat", "community", "gaming", "voice chat", "server")},
	{"calendly", profile("Scheduling Tool", "SaaS", models.BusinessTypeB2B, models.ComplexityLow, models.ComplexityLow,
		"calendar", "booking", "scheduling", "appointments", "meetings")},
	{"zoom", profile("Video Conferencing", "Communication", models.BusinessTypeB2B, models.ComplexityHigh, models.ComplexityMedium,
		"video call", "meeting", "conferencing", "webinar", "remote")},
	{"substack", profile("Newsletter Platform", "Publishing", models.BusinessTypeB2C, models.ComplexityLow, models.ComplexityLow,
		"newsletter", "publishing", "subscription", "content creator")},
}

func profile(name, category string, bt models.BusinessType, tech, reg models.Complexity, keywords ...string) models.BusinessModel {
	return models.BusinessModel{
		Name:                 name,
		Keywords:             keywords,
		Category:             category,
		BusinessType:         bt,
		TechnicalComplexity:  tech,
		RegulatoryComplexity: reg,
	}
}

// Lookup returns the profile registered under token (exact match).
func Lookup(token string) (models.BusinessModel, bool) {
	for _, e := range catalog {
		if e.token == token {
			return clone(e.model), true
		}
	}
	return models.BusinessModel{}, false
}

// Tokens lists the catalog tokens in evaluation order.
func Tokens() []string {
	out := make([]string, len(catalog))
	for i, e := range catalog {
		out[i] = e.token
	}
	return out
}

// clone hands out a copy so callers can never alias the catalog's keyword slices.
func clone(m models.BusinessModel) models.BusinessModel {
	m.Keywords = append([]string(nil), m.Keywords...)
	return m
}
