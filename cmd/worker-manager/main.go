// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"crosslaunch-workers/internal/api"
	"crosslaunch-workers/internal/common/camunda"
	"crosslaunch-workers/internal/common/config"
	"crosslaunch-workers/internal/common/database"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/common/observability"
	"crosslaunch-workers/internal/opportunity/pipeline"

	qm "crosslaunch-workers/internal/workers/data-access/query-markets"
	amo "crosslaunch-workers/internal/workers/opportunity/analyze-market-opportunity"
	cbm "crosslaunch-workers/internal/workers/opportunity/classify-business-model"
	mmp "crosslaunch-workers/internal/workers/opportunity/measure-market-presence"
	smo "crosslaunch-workers/internal/workers/opportunity/score-market-opportunity"
)

const (
	defaultVersion  = "dev"
	readyTimeout    = 3 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	version := cfg.App.Version
	if version == "" {
		version = defaultVersion
	}
	zapLog.Info("Starting worker manager...", zap.String("version", version), zap.String("environment", cfg.App.Environment))

	obs, err := observability.New(cfg.App.Name, version)
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Stores ---
	deps, err := connectStores(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("store connection failed", zap.Error(err))
	}
	defer deps.Close()

	// --- Analysis stack ---
	analyzer := buildPresenceAnalyzer(cfg, deps, log)
	marketSource := buildMarketSource(cfg, deps, log)
	resultSink, err := buildResultSink(ctx, cfg, deps, log)
	if err != nil {
		zapLog.Fatal("result sink setup failed", zap.Error(err))
	}

	p := pipeline.New(analyzer, pipeline.Config{
		MaxConcurrentMarkets: cfg.Analysis.MaxConcurrentMarkets,
		MarketTimeout:        config.GetDuration(cfg.Analysis.MarketTimeout),
	}, log)
	service := pipeline.NewService(p, marketSource, resultSink, cfg.Analysis.DefaultMarkets, log)

	// --- Workers ---
	var workers []worker.JobWorker
	start := func(taskType string, handler camunda.JobHandler) {
		if w := camunda.StartWorker(zeebe.Zeebe(), taskType, config.GetWorkerConfig(cfg, taskType), handler, obs, log); w != nil {
			workers = append(workers, w)
		}
	}
	timeoutOf := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	start(cbm.TaskType, cbm.NewHandler(&cbm.Config{Timeout: timeoutOf(cbm.TaskType)}, log))
	start(mmp.TaskType, mmp.NewHandler(&mmp.Config{Timeout: timeoutOf(mmp.TaskType)}, analyzer, log))
	start(smo.TaskType, smo.NewHandler(&smo.Config{Timeout: timeoutOf(smo.TaskType)}, log))
	start(amo.TaskType, amo.NewHandler(&amo.Config{Timeout: timeoutOf(amo.TaskType)}, service, log))
	start(qm.TaskType, qm.NewHandler(&qm.Config{
		Timeout:             timeoutOf(qm.TaskType),
		DefaultCountryCodes: cfg.Analysis.DefaultMarkets,
	}, marketSource, log))
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- HTTP API, health & metrics ---
	pingers := append([]database.Pinger{zeebe}, deps.Pingers()...)
	router := api.NewRouter(api.RouterOptions{
		Mode:     cfg.Server.Mode,
		Version:  version,
		Analyzer: service,
		Readiness: func(ctx context.Context) (map[string]string, bool) {
			return database.CheckAll(ctx, readyTimeout, pingers...)
		},
		Logger: log,
	})
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
