// internal/models/market.go
package models

// Market is a country's economic and demographic profile. It is read-only to
// the analysis and treated as a snapshot for the duration of one run.
type Market struct {
	CountryCode         string   `json:"countryCode"`
	CountryName         string   `json:"countryName"`
	Population          int64    `json:"population"`
	InternetPenetration float64  `json:"internetPenetration"`
	GDPPerCapita        float64  `json:"gdpPerCapita"`
	Languages           []string `json:"languages"`
	PrimarySearchEngine string   `json:"primarySearchEngine,omitempty"`
	AppStores           []string `json:"appStores"`
}

// SpeaksLanguage reports whether lang is one of the market's languages.
func (m Market) SpeaksLanguage(lang string) bool {
	for _, l := range m.Languages {
		if l == lang {
			return true
		}
	}
	return false
}
