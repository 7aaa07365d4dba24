// internal/workers/opportunity/measure-market-presence/handler.go
package measuremarketpresence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"crosslaunch-workers/internal/common/errors"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/common/validation"
	"crosslaunch-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "measure-market-presence"
)

var inputSchema = validation.MustCompile(GetInputSchema())

// Measurer produces the three presence signals for one market.
type Measurer interface {
	Measure(ctx context.Context, keywords []string, country string) (*models.PresenceSignals, error)
}

type Handler struct {
	config       *Config
	measurer     Measurer
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, measurer Measurer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		measurer:     measurer,
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
		return nil, errors.NewInputValidationError("Invalid measure-market-presence input", res.Summary())
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInputValidationError("Invalid measure-market-presence input", err.Error())
	}
	input.CountryCode = strings.ToUpper(strings.TrimSpace(input.CountryCode))
	return &input, nil
}

// execute only fails when the whole measurement cannot run, e.g. the job
// deadline passed. Individual upstream failures come back as neutral signals.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	signals, err := h.measurer.Measure(ctx, input.Keywords, input.CountryCode)
	if err != nil {
		return nil, errors.NewPresenceMeasurementFailedError(input.CountryCode, err)
	}
	if signals == nil {
		return nil, errors.NewPresenceMeasurementFailedError(input.CountryCode, fmt.Errorf("measurer returned no signals"))
	}

	h.logger.Info("presence measured", map[string]interface{}{
		"countryCode":   input.CountryCode,
		"presenceLevel": signals.Overall.PresenceLevel,
		"signalCount":   signals.Overall.SignalCount,
	})

	return &Output{CountryCode: input.CountryCode, PresenceSignals: signals}, nil
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
