package markets

import (
	"context"
	"strings"

	"crosslaunch-workers/internal/models"
)

var mobileStores = []string{"Google Play", "App Store"}

// seedMarkets covers the default analysis set so the service can run without
// a database.
var seedMarkets = []models.Market{
	{
		CountryCode: "BR", CountryName: "Brazil",
		Population: 214_000_000, InternetPenetration: 81, GDPPerCapita: 8900,
		Languages: []string{"Portuguese"}, PrimarySearchEngine: "Google", AppStores: mobileStores,
	},
	{
		CountryCode: "IN", CountryName: "India",
		Population: 1_400_000_000, InternetPenetration: 48, GDPPerCapita: 2400,
		Languages: []string{"Hindi", "English"}, PrimarySearchEngine: "Google", AppStores: mobileStores,
	},
	{
		CountryCode: "NG", CountryName: "Nigeria",
		Population: 218_000_000, InternetPenetration: 55, GDPPerCapita: 2100,
		Languages: []string{"English", "Hausa", "Yoruba", "Igbo"}, PrimarySearchEngine: "Google", AppStores: mobileStores,
	},
	{
		CountryCode: "ID", CountryName: "Indonesia",
		Population: 275_000_000, InternetPenetration: 66, GDPPerCapita: 4800,
		Languages: []string{"Indonesian"}, PrimarySearchEngine: "Google", AppStores: mobileStores,
	},
	{
		CountryCode: "MX", CountryName: "Mexico",
		Population: 128_000_000, InternetPenetration: 76, GDPPerCapita: 11000,
		Languages: []string{"Spanish"}, PrimarySearchEngine: "Google", AppStores: mobileStores,
	},
}

// StaticSource serves markets from an in-memory table.
type StaticSource struct {
	byCode map[string]models.Market
}

// NewStaticSource builds a source over markets, or over the built-in seed
// when none are given.
func NewStaticSource(markets ...models.Market) *StaticSource {
	if len(markets) == 0 {
		markets = seedMarkets
	}
	byCode := make(map[string]models.Market, len(markets))
	for _, m := range markets {
		byCode[strings.ToUpper(m.CountryCode)] = m
	}
	return &StaticSource{byCode: byCode}
}

// Markets returns the known markets in request order.
func (s *StaticSource) Markets(_ context.Context, countryCodes []string) ([]models.Market, error) {
	out := make([]models.Market, 0, len(countryCodes))
	for _, code := range countryCodes {
		if m, ok := s.byCode[strings.ToUpper(code)]; ok {
			out = append(out, copyMarket(m))
		}
	}
	return out, nil
}

func copyMarket(m models.Market) models.Market {
	m.Languages = append([]string{}, m.Languages...)
	m.AppStores = append([]string{}, m.AppStores...)
	return m
}
