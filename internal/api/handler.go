package api

import (
	"context"
	"net/http"
	"time"

	apperrors "crosslaunch-workers/internal/common/errors"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/common/metrics"
	"crosslaunch-workers/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidBody       = "Request body must be a JSON object"
	msgMarketData        = "Failed to fetch market data"
	msgInternal          = "Internal server error"
	entrypointHTTP       = "http"
	resultOK             = "ok"
	resultInvalid        = "invalid"
	resultMarketDataFail = "market_data_unavailable"
	resultError          = "error"
)

// Analyzer runs one opportunity analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

// CheckOpportunityResponse is the body of a successful analysis.
type CheckOpportunityResponse struct {
	SearchID      string               `json:"searchId"`
	BusinessModel models.BusinessModel `json:"businessModel"`
	Opportunities []models.Opportunity `json:"opportunities"`
	AnalysisTime  string               `json:"analysisTime"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type OpportunityHandler struct {
	analyzer Analyzer
	logger   logger.Logger
}

func NewOpportunityHandler(analyzer Analyzer, log logger.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		analyzer: analyzer,
		logger:   log.WithFields(map[string]interface{}{"handler": "check-opportunity"}),
	}
}

// CheckOpportunity handles POST /api/check-opportunity.
func (h *OpportunityHandler) CheckOpportunity(c *gin.Context) {
	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AnalysisRequests.WithLabelValues(entrypointHTTP, resultInvalid).Inc()
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		status, body, label := h.mapError(err)
		metrics.AnalysisRequests.WithLabelValues(entrypointHTTP, label).Inc()
		_ = c.Error(err)
		c.JSON(status, body)
		return
	}

	metrics.AnalysisRequests.WithLabelValues(entrypointHTTP, resultOK).Inc()
	c.JSON(http.StatusOK, CheckOpportunityResponse{
		SearchID:      result.SearchID,
		BusinessModel: result.BusinessModel,
		Opportunities: result.Opportunities,
		AnalysisTime:  result.AnalysisTimestamp.UTC().Format(time.RFC3339),
	})
}

func (h *OpportunityHandler) mapError(err error) (int, errorResponse, string) {
	stdErr := apperrors.Normalize(err)

	switch stdErr.Code {
	case apperrors.ErrCodeInputValidationFailed:
		return http.StatusBadRequest, errorResponse{Error: stdErr.Message}, resultInvalid
	case apperrors.ErrCodeMarketDataUnavailable:
		h.logger.Error("market data unavailable", map[string]interface{}{"details": stdErr.Details})
		return http.StatusInternalServerError, errorResponse{Error: msgMarketData}, resultMarketDataFail
	default:
		h.logger.Error("analysis failed", map[string]interface{}{"error": err.Error()})
		return http.StatusInternalServerError, errorResponse{Error: msgInternal}, resultError
	}
}
