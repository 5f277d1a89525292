package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onai_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "onai_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Relay metrics
	MessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "onai_messages_published_total",
			Help: "Total messages published to the queue",
		},
	)

	MessagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "onai_messages_consumed_total",
			Help: "Total queue messages consumed",
		},
	)

	MessagesRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "onai_messages_rejected_total",
			Help: "Total queue messages rejected as undecodable",
		},
	)

	TurnsStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onai_turns_stored_total",
			Help: "Total conversation turns stored",
		},
		[]string{"role"},
	)

	Completions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onai_completions_total",
			Help: "Total completion calls",
		},
		[]string{"outcome"}, // "ok" or "failed"
	)

	CompletionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "onai_completion_duration_seconds",
			Help:    "Completion provider call duration",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	Deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onai_deliveries_total",
			Help: "Total callback deliveries",
		},
		[]string{"outcome"}, // "ok" or "failed"
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "onai_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		},
	)
)
