// internal/workers/opportunity/analyze-market-opportunity/handler.go
package analyzemarketopportunity

import (
	"context"
	"encoding/json"
	"fmt"

	"crosslaunch-workers/internal/common/errors"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/common/metrics"
	"crosslaunch-workers/internal/common/validation"
	"crosslaunch-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "analyze-market-opportunity"

	entrypointWorker = "worker"
)

// Analyzer runs a complete opportunity analysis for one request.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

type Handler struct {
	config       *Config
	analyzer     Analyzer
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, analyzer Analyzer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		analyzer:     analyzer,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(job.Variables)
	if err != nil {
		metrics.AnalysisRequests.WithLabelValues(entrypointWorker, resultLabel(err)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// parseInput checks field shapes only. Whether the request carries enough to
// classify is decided by the analyzer.
func parseInput(variables string) (*Input, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &raw); err != nil {
		return nil, errors.NewInputValidationError("Job variables are not a JSON object", err.Error())
	}
	if res := validation.AnalysisRequest.Validate(raw); !res.Valid {
		return nil, errors.NewInputValidationError("Invalid analyze-market-opportunity input", res.Summary())
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInputValidationError("Invalid analyze-market-opportunity input", err.Error())
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.analyzer.Analyze(ctx, input.toRequest())
	if err != nil {
		metrics.AnalysisRequests.WithLabelValues(entrypointWorker, resultLabel(err)).Inc()
		return nil, err
	}
	metrics.AnalysisRequests.WithLabelValues(entrypointWorker, "ok").Inc()

	output := &Output{
		SearchID:          result.SearchID,
		BusinessModel:     result.BusinessModel,
		Opportunities:     result.Opportunities,
		AnalysisTimestamp: result.AnalysisTimestamp,
	}
	if len(result.Opportunities) > 0 && result.Opportunities[0].Status == models.OpportunityAnalyzed {
		output.TopCountryCode = result.Opportunities[0].CountryCode
	}

	h.logger.Info("analysis completed", map[string]interface{}{
		"searchId":      result.SearchID,
		"businessModel": result.BusinessModel.Name,
		"markets":       len(result.Opportunities),
		"topMarket":     output.TopCountryCode,
	})

	return output, nil
}

func resultLabel(err error) string {
	switch errors.Normalize(err).Code {
	case errors.ErrCodeInputValidationFailed:
		return "invalid"
	case errors.ErrCodeMarketDataUnavailable:
		return "market_data_unavailable"
	default:
		return "error"
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, errors.NewInternalError(fmt.Errorf("encode output: %w", err)))
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
