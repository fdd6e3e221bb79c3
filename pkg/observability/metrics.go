// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the slipstream proxy.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 300s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300}

// Stream outcome label values.
const (
	OutcomeCompleted          = "completed"
	OutcomeInterrupted        = "interrupted"
	OutcomeClientDisconnected = "client_disconnected"
	OutcomeRejected           = "rejected"
)

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slipstream_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slipstream_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method"},
	)

	// StreamingConnections tracks the number of active relays.
	StreamingConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "slipstream_streaming_connections_active",
			Help: "Active streaming connections",
		},
	)

	// ProviderRequestsTotal counts streaming invocations sent to backends.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slipstream_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"provider", "model", "status"},
	)

	// ProviderLatency records the time until the backend stream opened.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slipstream_provider_latency_seconds",
			Help:    "Provider latency until the stream opened",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	// ProviderTokensTotal counts tokens reported by the backend by direction (input/output).
	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slipstream_provider_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "model", "direction"},
	)

	// StreamOutcomesTotal counts finished requests by how the stream ended.
	StreamOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slipstream_stream_outcomes_total",
			Help: "Stream outcomes",
		},
		[]string{"outcome"},
	)

	// RelayedEventsTotal counts events written to clients.
	RelayedEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "slipstream_relayed_events_total",
			Help: "Relayed events",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		StreamingConnections,
		ProviderRequestsTotal,
		ProviderLatency,
		ProviderTokensTotal,
		StreamOutcomesTotal,
		RelayedEventsTotal,
	)
}
