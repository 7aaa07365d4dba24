// internal/workers/opportunity/analyze-market-opportunity/models.go
package analyzemarketopportunity

import (
	"time"

	"crosslaunch-workers/internal/models"
)

type Input struct {
	StartupURL    string   `json:"startupUrl"`
	BusinessType  string   `json:"businessType"`
	Description   string   `json:"description"`
	Keywords      []string `json:"keywords"`
	TargetMarkets []string `json:"targetMarkets"`
}

func (i *Input) toRequest() models.AnalysisRequest {
	return models.AnalysisRequest{
		StartupURL:    i.StartupURL,
		BusinessType:  i.BusinessType,
		Description:   i.Description,
		Keywords:      i.Keywords,
		TargetMarkets: i.TargetMarkets,
	}
}

type Output struct {
	SearchID          string               `json:"searchId"`
	BusinessModel     models.BusinessModel `json:"businessModel"`
	Opportunities     []models.Opportunity `json:"opportunities"`
	AnalysisTimestamp time.Time            `json:"analysisTimestamp"`
	TopCountryCode    string               `json:"topCountryCode,omitempty"`
}
