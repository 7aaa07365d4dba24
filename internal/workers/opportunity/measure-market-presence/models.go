// internal/workers/opportunity/measure-market-presence/models.go
package measuremarketpresence

import "crosslaunch-workers/internal/models"

type Input struct {
	CountryCode string   `json:"countryCode"`
	Keywords    []string `json:"keywords"`
}

type Output struct {
	CountryCode     string                  `json:"countryCode"`
	PresenceSignals *models.PresenceSignals `json:"presenceSignals"`
}

func GetInputSchema() string {
	return `{
	  "type": "object",
	  "required": ["countryCode", "keywords"],
	  "properties": {
	    "countryCode": {"type": "string", "pattern": "^\\s*[A-Za-z]{2}\\s*$"},
	    "keywords": {
	      "type": "array",
	      "minItems": 1,
	      "maxItems": 25,
	      "items": {"type": "string", "minLength": 1}
	    }
	  }
	}`
}
