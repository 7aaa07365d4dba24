package database

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crosslaunch-workers/internal/common/config"
	"crosslaunch-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type flakyPinger struct {
	failures int
	calls    int
}

func (f *flakyPinger) Name() string { return "flaky" }

func (f *flakyPinger) Ping(ctx context.Context) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection refused")
	}
	return nil
}

// ==========================
// Clients
// ==========================

func TestPostgresClient_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("server closed the connection"))

	pg := &PostgresClient{DB: db}
	assert.NoError(t, pg.Ping(context.Background()))

	err = pg.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres ping failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	rc := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rc.Close()

	assert.NoError(t, rc.Ping(context.Background()))

	mr.Close()
	assert.Error(t, rc.Ping(context.Background()))
}

func TestElasticsearchClient_Ping(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(status)
	}))
	defer srv.Close()

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)

	assert.NoError(t, es.Ping(context.Background()))

	status = http.StatusServiceUnavailable
	assert.Error(t, es.Ping(context.Background()))
}

// ==========================
// Readiness & retry
// ==========================

func TestCheckAll(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rc.Close()

	statuses, ready := CheckAll(context.Background(), time.Second, rc, &flakyPinger{failures: 1})

	assert.False(t, ready)
	assert.Equal(t, "ok", statuses["redis"])
	assert.Equal(t, "connection refused", statuses["flaky"])

	statuses, ready = CheckAll(context.Background(), time.Second, rc)
	assert.True(t, ready)
	assert.Len(t, statuses, 1)
}

func TestConnectWithRetry(t *testing.T) {
	p := &flakyPinger{failures: 2}

	err := ConnectWithRetry(context.Background(), p, 5, time.Millisecond, logger.NewTestLogger(t))

	assert.NoError(t, err)
	assert.Equal(t, 3, p.calls)
}

func TestConnectWithRetry_GivesUp(t *testing.T) {
	p := &flakyPinger{failures: 10}

	err := ConnectWithRetry(context.Background(), p, 3, time.Millisecond, logger.NewNoOpLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "flaky unreachable after 3 attempts")
	assert.Equal(t, 3, p.calls)
}

func TestConnectWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ConnectWithRetry(ctx, &flakyPinger{failures: 10}, 5, time.Hour, logger.NewNoOpLogger())

	assert.ErrorIs(t, err, context.Canceled)
}
