// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"crosslaunch-workers/internal/common/config"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/common/metrics"
	"crosslaunch-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every worker package's Handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

const (
	OutcomeCompleted   = "completed"
	OutcomeFailed      = "failed"
	OutcomeErrorThrown = "error_thrown"
	OutcomeUnanswered  = "unanswered"
)

// StartWorker opens a job worker for taskType. Disabled workers are skipped and
// return nil.
func StartWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, obs)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}

// Instrument wraps a handler with the worker_* Prometheus collectors and the
// otel job meters. The outcome is read off whichever command the handler
// builds, so handlers stay free of metric bookkeeping.
func Instrument(taskType string, handler JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		observed := &outcomeClient{JobClient: client, outcome: OutcomeUnanswered}
		handler.Handle(observed, job)

		elapsed := time.Since(start)
		switch observed.outcome {
		case OutcomeCompleted:
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		default:
			metrics.WorkerJobsFailed.WithLabelValues(taskType, observed.outcome).Inc()
		}
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())

		ctx := context.Background()
		obs.RecordJobProcessed(ctx, taskType, observed.outcome)
		obs.RecordJobDuration(ctx, taskType, elapsed, observed.outcome)
	}
}

// outcomeClient records the last command a handler asked for.
type outcomeClient struct {
	worker.JobClient
	outcome string
}

func (c *outcomeClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.outcome = OutcomeCompleted
	return c.JobClient.NewCompleteJobCommand()
}

func (c *outcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.outcome = OutcomeFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *outcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.outcome = OutcomeErrorThrown
	return c.JobClient.NewThrowErrorCommand()
}
