// internal/workers/data-access/query-markets/handler.go
package querymarkets

import (
	"context"
	"encoding/json"
	"fmt"

	"crosslaunch-workers/internal/common/errors"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/common/validation"
	"crosslaunch-workers/internal/opportunity/markets"
	"crosslaunch-workers/internal/opportunity/pipeline"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "query-markets"
)

var inputSchema = validation.MustCompile(GetInputSchema())

type Handler struct {
	config       *Config
	source       markets.Source
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, source markets.Source, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		source:       source,
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
		return nil, errors.NewInputValidationError("Invalid query-markets input", res.Summary())
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInputValidationError("Invalid query-markets input", err.Error())
	}
	return &input, nil
}

// execute reports unknown codes instead of failing; only an empty result or a
// source error is treated as missing market data.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	codes := pipeline.NormalizeCountryCodes(input.CountryCodes)
	if len(codes) == 0 {
		codes = pipeline.NormalizeCountryCodes(h.config.DefaultCountryCodes)
	}

	found, err := h.source.Markets(ctx, codes)
	if err != nil {
		return nil, errors.NewMarketDataUnavailableError(err)
	}
	if len(found) == 0 {
		return nil, errors.NewMarketDataUnavailableError(nil).WithMetadata("countryCodes", codes)
	}

	seen := make(map[string]bool, len(found))
	for _, m := range found {
		seen[m.CountryCode] = true
	}
	missing := []string{}
	for _, c := range codes {
		if !seen[c] {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		h.logger.Warn("unknown country codes skipped", map[string]interface{}{
			"missing": missing,
		})
	}

	return &Output{Markets: found, MissingCountryCodes: missing}, nil
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
