package businessmodel

import (
	"net/url"
	"strings"

	"crosslaunch-workers/internal/models"
)

// fallbackRule maps a set of substring triggers to a canned category profile.
type fallbackRule struct {
	triggers []string
	model    models.BusinessModel
}

// fallbackRules are checked in order; the first rule with any trigger present wins.
var fallbackRules = []fallbackRule{
	{
		triggers: []string{"payment", "finance", "banking", "loan", "credit", "trading", "invest"},
		model: profile("Financial Services", "Fintech", models.BusinessTypeB2C, models.ComplexityHigh, models.ComplexityHigh,
			"fintech", "financial services"),
	},
	{
		triggers: []string{"marketplace", "delivery", "booking", "platform", "connect"},
		model: profile("Marketplace Platform", "Marketplace", models.BusinessTypeB2C, models.ComplexityMedium, models.ComplexityMedium,
			"marketplace", "platform"),
	},
	{
		triggers: []string{"software", "saas", "tool", "productivity", "management", "automation"},
		model: profile("SaaS Tool", "SaaS", models.BusinessTypeB2B, models.ComplexityMedium, models.ComplexityLow,
			"saas", "software", "tool"),
	},
	{
		triggers: []string{"education", "learning", "course", "training", "teach"},
		model: profile("Education Platform", "Education", models.BusinessTypeB2C, models.ComplexityMedium, models.ComplexityLow,
			"education", "learning"),
	},
	{
		triggers: []string{"chat", "messaging", "communication", "social", "community"},
		model: profile("Communication Platform", "Communication", models.BusinessTypeB2C, models.ComplexityMedium, models.ComplexityLow,
			"communication", "social"),
	},
	{
		triggers: []string{"ecommerce", "shop", "retail", "store", "sell"},
		model: profile("E-commerce Platform", "E-commerce", models.BusinessTypeB2C, models.ComplexityMedium, models.ComplexityMedium,
			"ecommerce", "retail"),
	},
}

var defaultModel = profile("Digital Platform", "Technology", models.BusinessTypeB2C, models.ComplexityMedium, models.ComplexityLow,
	"digital", "platform")

// Identify resolves input into a complete business-model profile. It never
// fails: inputs that match nothing get the default digital-platform profile.
//
// Resolution order is name substring against the catalog, then the URL's
// leftmost domain label as an exact catalog token, then keyword fallback.
func Identify(input models.BusinessModelInput) models.BusinessModel {
	if name := strings.ToLower(strings.TrimSpace(input.Name)); name != "" {
		for _, e := range catalog {
			if strings.Contains(name, e.token) {
				return clone(e.model)
			}
		}
	}

	if input.URL != "" {
		if label, ok := domainLabel(input.URL); ok {
			if m, found := Lookup(label); found {
				return m
			}
		}
	}

	return classifyByKeywords(input.Keywords, input.Description)
}

// KeywordsFor is the search-keyword set fed to presence sources.
func KeywordsFor(m models.BusinessModel) []string {
	out := make([]string, 0, len(m.Keywords)+2)
	out = append(out, m.Keywords...)
	return append(out, strings.ToLower(m.Name), strings.ToLower(m.Category))
}

func classifyByKeywords(keywords []string, description string) models.BusinessModel {
	text := strings.ToLower(strings.Join(keywords, " ") + " " + description)

	for _, rule := range fallbackRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(text, trigger) {
				return clone(rule.model)
			}
		}
	}
	return clone(defaultModel)
}

// domainLabel extracts the leftmost label of the host, without a leading "www.".
func domainLabel(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	label, _, _ := strings.Cut(host, ".")
	return label, label != ""
}
