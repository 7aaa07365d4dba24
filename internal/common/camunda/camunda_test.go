package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "crosslaunch-workers/internal/common/errors"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fastRetry = RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}

// nilJobClient hands out nil commands; the handlers below never send them.
type nilJobClient struct{}

func (nilJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 { return nil }
func (nilJobClient) NewFailJobCommand() commands.FailJobCommandStep1         { return nil }
func (nilJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1   { return nil }

type handlerFunc func(client worker.JobClient, job entities.Job)

func (f handlerFunc) Handle(client worker.JobClient, job entities.Job) { f(client, job) }

func testJob() entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42, Type: "classify-business-model", Retries: 3}}
}

// ==========================
// Retry
// ==========================

func TestWithRetry_RecoversFromTransientErrors(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry, "topology", logger.NewTestLogger(t), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry, "topology", logger.NewNoOpLogger(), func(ctx context.Context) error {
		calls++
		return errors.New("permission denied")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, apperrors.ErrCodeExternalService, apperrors.Normalize(err).Code)
}

func TestWithRetry_ExhaustedTimeoutsMapToTimeoutError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry, "topology", logger.NewNoOpLogger(), func(ctx context.Context) error {
		calls++
		return context.DeadlineExceeded
	})

	assert.Equal(t, fastRetry.MaxRetries+1, calls)
	assert.Equal(t, apperrors.ErrCodeTimeout, apperrors.Normalize(err).Code)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slow := RetryConfig{MaxRetries: 3, BaseDelay: time.Hour, MaxDelay: time.Hour}
	err := withRetry(ctx, slow, "topology", logger.NewNoOpLogger(), func(ctx context.Context) error {
		return errors.New("unavailable")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff(t *testing.T) {
	cfg := RetryConfig{BaseDelay: time.Second, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, backoff(cfg, 0))
	assert.Equal(t, 2*time.Second, backoff(cfg, 1))
	assert.Equal(t, 4*time.Second, backoff(cfg, 2))
	assert.Equal(t, 5*time.Second, backoff(cfg, 3))
	assert.Equal(t, 5*time.Second, backoff(cfg, 62))
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(errors.New("Connection Reset by peer")))
	assert.True(t, isRetryableZeebeError(errors.New("context deadline exceeded")))
	assert.False(t, isRetryableZeebeError(errors.New("NOT_FOUND: process not deployed")))
}

// ==========================
// Instrumentation
// ==========================

func TestInstrument_RecordsOutcome(t *testing.T) {
	tests := []struct {
		name     string
		taskType string
		handle   func(client worker.JobClient)
		outcome  string
	}{
		{"completed", "instrument-complete", func(c worker.JobClient) { c.NewCompleteJobCommand() }, OutcomeCompleted},
		{"failed", "instrument-fail", func(c worker.JobClient) { c.NewFailJobCommand() }, OutcomeFailed},
		{"thrown", "instrument-throw", func(c worker.JobClient) { c.NewThrowErrorCommand() }, OutcomeErrorThrown},
		{"unanswered", "instrument-none", func(c worker.JobClient) {}, OutcomeUnanswered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlerFunc(func(client worker.JobClient, job entities.Job) { tt.handle(client) })

			Instrument(tt.taskType, h, nil)(nilJobClient{}, testJob())

			if tt.outcome == OutcomeCompleted {
				assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(tt.taskType)))
			} else {
				assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(tt.taskType, tt.outcome)))
			}
			assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(tt.taskType)))
		})
	}
}
