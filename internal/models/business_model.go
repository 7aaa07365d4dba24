// internal/models/business_model.go
package models

// BusinessType is the customer segment a business model sells to.
type BusinessType string

const (
	BusinessTypeB2C   BusinessType = "B2C"
	BusinessTypeB2B   BusinessType = "B2B"
	BusinessTypeB2B2C BusinessType = "B2B2C"
)

// Complexity grades technical or regulatory difficulty.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// BusinessModel is the classified identity of the venture being analyzed.
// Profiles are always fully populated and are never mutated after classification.
type BusinessModel struct {
	Name                 string       `json:"name"`
	Keywords             []string     `json:"keywords"`
	Category             string       `json:"category"`
	BusinessType         BusinessType `json:"businessType"`
	TechnicalComplexity  Complexity   `json:"technicalComplexity"`
	RegulatoryComplexity Complexity   `json:"regulatoryComplexity"`
}

// BusinessModelInput is the free-form description handed to the classifier.
type BusinessModelInput struct {
	Name        string   `json:"name,omitempty"`
	URL         string   `json:"url,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// IsEmpty reports whether the input carries nothing the classifier can use.
func (in BusinessModelInput) IsEmpty() bool {
	return in.Name == "" && in.URL == "" && in.Description == "" && len(in.Keywords) == 0
}
