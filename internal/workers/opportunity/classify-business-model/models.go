// internal/workers/opportunity/classify-business-model/models.go
package classifybusinessmodel

import "crosslaunch-workers/internal/models"

type Input struct {
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

func (i *Input) toClassifierInput() models.BusinessModelInput {
	return models.BusinessModelInput{
		Name:        i.Name,
		URL:         i.URL,
		Description: i.Description,
		Keywords:    i.Keywords,
	}
}

type Output struct {
	BusinessModel  models.BusinessModel `json:"businessModel"`
	SearchKeywords []string             `json:"searchKeywords"`
}

// GetInputSchema returns the JSON schema for the job variables this worker reads.
func GetInputSchema() string {
	return `{
	  "type": "object",
	  "properties": {
	    "name":        {"type": ["string", "null"], "maxLength": 200},
	    "url":         {"type": ["string", "null"], "maxLength": 2048},
	    "description": {"type": ["string", "null"], "maxLength": 5000},
	    "keywords":    {"type": ["array", "null"], "items": {"type": "string"}}
	  }
	}`
}
