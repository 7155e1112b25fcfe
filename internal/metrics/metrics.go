package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Service metrics for production monitoring
var (
	// Analysis pipeline metrics
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datasight_analyses_total",
			Help: "Total number of dataset analyses",
		},
		[]string{"route", "status"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datasight_analysis_duration_seconds",
			Help:    "End-to-end analysis duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~3min
		},
		[]string{"route"},
	)

	DatasetRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "datasight_dataset_rows",
			Help:    "Row count of analyzed datasets",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8), // 10 to ~160k rows
		},
	)

	// LLM metrics
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datasight_llm_requests_total",
			Help: "Total number of LLM API requests",
		},
		[]string{"provider", "model", "status"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datasight_llm_request_duration_seconds",
			Help:    "LLM request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~1min
		},
		[]string{"provider", "model"},
	)

	LLMTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datasight_llm_tokens_total",
			Help: "Total number of LLM tokens consumed",
		},
		[]string{"provider", "model", "type"}, // type: input/output
	)
)
