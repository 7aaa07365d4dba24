// internal/workers/opportunity/score-market-opportunity/handler.go
package scoremarketopportunity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"crosslaunch-workers/internal/common/errors"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/common/validation"
	"crosslaunch-workers/internal/opportunity/pipeline"
	"crosslaunch-workers/internal/opportunity/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-market-opportunity"
)

var inputSchema = validation.MustCompile(GetInputSchema())

type Handler struct {
	config       *Config
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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

func parseInput(variables string) (*Input, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &raw); err != nil {
		return nil, errors.NewInputValidationError("Job variables are not a JSON object", err.Error())
	}
	if res := inputSchema.Validate(raw); !res.Valid {
		return nil, errors.NewInputValidationError("Invalid score-market-opportunity input", res.Summary())
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInputValidationError("Invalid score-market-opportunity input", err.Error())
	}
	input.Market.CountryCode = strings.ToUpper(input.Market.CountryCode)
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.PresenceSignals == nil || input.Market == nil || input.BusinessModel == nil {
		return nil, errors.NewInputValidationError(
			"presenceSignals, market and businessModel are required", "")
	}

	score := scoring.Score(*input.PresenceSignals, *input.Market, *input.BusinessModel)
	opportunity := pipeline.NewOpportunity(*input.Market, input.PresenceSignals, score)

	h.logger.Info("market scored", map[string]interface{}{
		"countryCode":    input.Market.CountryCode,
		"businessModel":  input.BusinessModel.Name,
		"overall":        score.Overall,
		"recommendation": score.Recommendation,
	})

	return &Output{OpportunityScore: score, Opportunity: opportunity}, nil
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
