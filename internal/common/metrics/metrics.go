package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	SignalMeasurements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presence_signal_measurements_total",
			Help: "Presence signal measurements by source and outcome (measured, degraded, cache_hit)",
		},
		[]string{"source", "outcome"},
	)

	SignalDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "presence_signal_duration_seconds",
			Help:    "Duration of a single presence signal measurement",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"source"},
	)

	MarketAnalyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_analyses_total",
			Help: "Per-market opportunity analyses by status (analyzed, failed)",
		},
		[]string{"status"},
	)

	OpportunityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "opportunity_overall_score",
			Help:    "Distribution of overall opportunity scores",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	AnalysisRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opportunity_analysis_requests_total",
			Help: "Opportunity analysis requests by entry point and result",
		},
		[]string{"entrypoint", "result"},
	)

	ResultSinkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_sink_failures_total",
			Help: "Failures to persist or publish a completed analysis",
		},
		[]string{"sink"},
	)
)
