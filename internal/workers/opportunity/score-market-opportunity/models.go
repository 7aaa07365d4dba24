// internal/workers/opportunity/score-market-opportunity/models.go
package scoremarketopportunity

import "crosslaunch-workers/internal/models"

type Input struct {
	PresenceSignals *models.PresenceSignals `json:"presenceSignals"`
	Market          *models.Market          `json:"market"`
	BusinessModel   *models.BusinessModel   `json:"businessModel"`
}

type Output struct {
	OpportunityScore models.OpportunityScore `json:"opportunityScore"`
	Opportunity      models.Opportunity      `json:"opportunity"`
}

// GetInputSchema only pins the parts the scorer reads. Missing sub-signal
// fields score as zero.
func GetInputSchema() string {
	return `{
	  "type": "object",
	  "required": ["presenceSignals", "market", "businessModel"],
	  "properties": {
	    "presenceSignals": {
	      "type": "object",
	      "properties": {
	        "github":  {"type": "object"},
	        "news":    {"type": "object"},
	        "trends":  {"type": "object"},
	        "overall": {"type": "object"}
	      }
	    },
	    "market": {
	      "type": "object",
	      "required": ["countryCode", "population"],
	      "properties": {
	        "countryCode":         {"type": "string", "pattern": "^[A-Za-z]{2}$"},
	        "population":          {"type": "integer", "minimum": 0},
	        "internetPenetration": {"type": "number", "minimum": 0, "maximum": 100},
	        "gdpPerCapita":        {"type": "number", "minimum": 0}
	      }
	    },
	    "businessModel": {
	      "type": "object",
	      "required": ["name"],
	      "properties": {
	        "name":         {"type": "string", "minLength": 1},
	        "businessType": {"type": "string", "enum": ["B2C", "B2B", "B2B2C"]}
	      }
	    }
	  }
	}`
}
