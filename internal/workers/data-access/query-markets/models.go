// internal/workers/data-access/query-markets/models.go
package querymarkets

import "crosslaunch-workers/internal/models"

type Input struct {
	CountryCodes []string `json:"countryCodes"`
}

type Output struct {
	Markets             []models.Market `json:"markets"`
	MissingCountryCodes []string        `json:"missingCountryCodes"`
}

func GetInputSchema() string {
	return `{
	  "type": "object",
	  "properties": {
	    "countryCodes": {
	      "type": ["array", "null"],
	      "maxItems": 50,
	      "items": {"type": "string", "pattern": "^\\s*[A-Za-z]{2}\\s*$"}
	    }
	  }
	}`
}
