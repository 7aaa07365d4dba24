package pipeline

import (
	"context"
	"strings"

	apperrors "crosslaunch-workers/internal/common/errors"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/common/metrics"
	"crosslaunch-workers/internal/common/validation"
	"crosslaunch-workers/internal/models"

	"github.com/google/uuid"
)

// ValidationMessage is returned when a request has nothing to classify.
const ValidationMessage = "Either startupUrl or businessType is required"

// MalformedRequestMessage is returned when a field has the wrong shape.
const MalformedRequestMessage = "Invalid analysis request"

// DefaultMarkets is the seed set analyzed when a request names no markets.
var DefaultMarkets = []string{"BR", "IN", "NG", "ID", "MX"}

// MarketSource returns market records for the requested country codes.
// Unknown codes are silently skipped.
type MarketSource interface {
	Markets(ctx context.Context, countryCodes []string) ([]models.Market, error)
}

// ResultSink stores completed analyses.
type ResultSink interface {
	Store(ctx context.Context, record models.SearchRecord) error
}

// Service is the single operation exposed to callers: validate a request,
// load its markets, run the pipeline and persist the outcome.
type Service struct {
	pipeline       *Pipeline
	markets        MarketSource
	sink           ResultSink
	defaultMarkets []string
	logger         logger.Logger
	newID          func() string
}

// NewService wires a Service. A nil sink disables persistence and an empty
// defaultMarkets falls back to DefaultMarkets.
func NewService(p *Pipeline, markets MarketSource, sink ResultSink, defaultMarkets []string, log logger.Logger) *Service {
	if len(defaultMarkets) == 0 {
		defaultMarkets = DefaultMarkets
	}
	return &Service{
		pipeline:       p,
		markets:        markets,
		sink:           sink,
		defaultMarkets: defaultMarkets,
		logger:         log.WithFields(map[string]interface{}{"component": "opportunity-service"}),
		newID:          func() string { return uuid.New().String() },
	}
}

// Analyze returns a *errors.StandardError with code INPUT_VALIDATION_FAILED or
// MARKET_DATA_UNAVAILABLE; every other failure is absorbed into the result.
func (s *Service) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	codes := NormalizeCountryCodes(req.TargetMarkets)
	if len(codes) == 0 {
		codes = s.defaultMarkets
	}

	markets, err := s.markets.Markets(ctx, codes)
	if err != nil {
		s.logger.Error("market data unavailable", map[string]interface{}{
			"countryCodes": codes,
			"error":        err.Error(),
		})
		return nil, apperrors.NewMarketDataUnavailableError(err)
	}
	if len(markets) == 0 {
		return nil, apperrors.NewMarketDataUnavailableError(nil).
			WithMetadata("countryCodes", codes)
	}

	result := s.pipeline.Run(ctx, req.ClassifierInput(), markets)
	result.SearchID = s.newID()

	s.store(ctx, req, result)

	return result, nil
}

func (s *Service) store(ctx context.Context, req models.AnalysisRequest, result *models.AnalysisResult) {
	if s.sink == nil {
		return
	}
	record := models.SearchRecord{
		ID:            result.SearchID,
		Query:         req.Query(),
		StartupURL:    req.StartupURL,
		BusinessModel: result.BusinessModel,
		Opportunities: result.Opportunities,
		AnalyzedAt:    result.AnalysisTimestamp,
	}
	if err := s.sink.Store(ctx, record); err != nil {
		metrics.ResultSinkFailures.WithLabelValues("service").Inc()
		s.logger.Error("failed to store search", map[string]interface{}{
			"searchId": result.SearchID,
			"error":    err.Error(),
		})
	}
}

// Validate rejects a request that carries no startup URL, business type or
// description, then checks field shapes against the request schema.
func Validate(req models.AnalysisRequest) error {
	if strings.TrimSpace(req.StartupURL) == "" &&
		strings.TrimSpace(req.BusinessType) == "" &&
		strings.TrimSpace(req.Description) == "" {
		return apperrors.NewInputValidationError(ValidationMessage, "startupUrl, businessType and description are all empty")
	}
	if res := validation.AnalysisRequest.Validate(req); !res.Valid {
		return apperrors.NewInputValidationError(MalformedRequestMessage, res.Summary())
	}
	return nil
}

// NormalizeCountryCodes upper-cases, trims and de-duplicates codes, keeping
// first-seen order.
func NormalizeCountryCodes(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
