// internal/models/analysis_request.go
package models

import (
	"strings"
	"time"
)

// AnalysisRequest is the caller-facing input of an opportunity analysis, shared
// by the HTTP API and the analyze-market-opportunity worker.
type AnalysisRequest struct {
	StartupURL    string   `json:"startupUrl,omitempty"`
	BusinessType  string   `json:"businessType,omitempty"`
	Description   string   `json:"description,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	TargetMarkets []string `json:"targetMarkets,omitempty"`
}

// ClassifierInput maps the request onto classifier input. The business type
// doubles as the description when none is given.
func (r AnalysisRequest) ClassifierInput() BusinessModelInput {
	description := r.Description
	if description == "" {
		description = r.BusinessType
	}
	return BusinessModelInput{
		Name:        strings.TrimSpace(r.BusinessType),
		URL:         strings.TrimSpace(r.StartupURL),
		Description: description,
		Keywords:    r.Keywords,
	}
}

// Query is the human-readable label stored with persisted results.
func (r AnalysisRequest) Query() string {
	if r.BusinessType != "" {
		return r.BusinessType
	}
	if r.Description != "" {
		return r.Description
	}
	return r.StartupURL
}

// SearchRecord is what a result sink stores for one completed analysis.
type SearchRecord struct {
	ID            string        `json:"id"`
	Query         string        `json:"query"`
	StartupURL    string        `json:"startupUrl,omitempty"`
	BusinessModel BusinessModel `json:"businessModel"`
	Opportunities []Opportunity `json:"opportunities"`
	AnalyzedAt    time.Time     `json:"analyzedAt"`
}
