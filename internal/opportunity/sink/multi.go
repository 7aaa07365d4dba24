package sink

import (
	"context"
	"errors"
	"sync"

	"crosslaunch-workers/internal/common/metrics"
	"crosslaunch-workers/internal/models"
)

// Sink is a named result sink.
type Sink interface {
	Name() string
	Store(ctx context.Context, record models.SearchRecord) error
}

// Multi stores into every sink concurrently and joins their errors. One
// failing sink does not stop the others.
type Multi struct {
	sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Store(ctx context.Context, record models.SearchRecord) error {
	errs := make([]error, len(m.sinks))

	var wg sync.WaitGroup
	for i, s := range m.sinks {
		i, s := i, s
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Store(ctx, record); err != nil {
				metrics.ResultSinkFailures.WithLabelValues(s.Name()).Inc()
				errs[i] = err
			}
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}
