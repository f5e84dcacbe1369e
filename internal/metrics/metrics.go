// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ranking Metrics
	RankRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "townsquare_rank_requests_total",
			Help: "Total number of ranking requests",
		},
		[]string{"kind"}, // "topic", "insight"
	)

	RankDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "townsquare_rank_duration_seconds",
			Help:    "Duration of ranking calls in seconds, including the preference load",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"kind"},
	)

	RankItemsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "townsquare_rank_items_scored_total",
			Help: "Total number of content items scored",
		},
		[]string{"kind"},
	)

	RankBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "townsquare_rank_batch_size",
			Help:    "Number of items per ranking request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	RankRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "townsquare_rank_rejected_total",
			Help: "Total number of ranking requests rejected for exceeding the item limit",
		},
	)

	// Interaction Metrics
	InteractionsTracked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "townsquare_interactions_tracked_total",
			Help: "Total number of interactions recorded",
		},
	)

	InteractionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "townsquare_interaction_errors_total",
			Help: "Total number of interactions that failed to persist",
		},
	)

	PreferenceResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "townsquare_preference_resets_total",
			Help: "Total number of preference records removed",
		},
	)

	// Preference Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "townsquare_store_operation_duration_seconds",
			Help:    "Duration of preference store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"}, // operation: "load", "save", "update", "delete"
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "townsquare_store_errors_total",
			Help: "Total number of preference store errors",
		},
		[]string{"backend", "operation"},
	)

	StoreFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "townsquare_store_fallbacks_total",
			Help: "Total number of loads that fell back to empty preferences",
		},
		[]string{"backend", "reason"}, // reason: "corrupt", "backend_error"
	)

	StoreUpdateRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "townsquare_store_update_retries_total",
			Help: "Total number of optimistic update retries after a write conflict",
		},
		[]string{"backend"},
	)

	StoreUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "townsquare_store_up",
			Help: "Whether the last preference store ping succeeded (1) or failed (0)",
		},
		[]string{"backend"},
	)

	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "townsquare_store_gc_runs_total",
			Help: "Total number of value log garbage collection runs",
		},
		[]string{"result"}, // result: "rewritten", "noop", "error"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordRank records a completed ranking request
func RecordRank(kind string, items int, duration time.Duration) {
	RankRequestsTotal.WithLabelValues(kind).Inc()
	RankItemsScored.WithLabelValues(kind).Add(float64(items))
	RankDuration.WithLabelValues(kind).Observe(duration.Seconds())
	RankBatchSize.Observe(float64(items))
}

// RecordInteraction records the outcome of a tracked interaction
func RecordInteraction(err error) {
	if err != nil {
		InteractionErrors.Inc()
		return
	}
	InteractionsTracked.Inc()
}

// RecordStoreOperation records a preference store operation
func RecordStoreOperation(backend, operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		StoreErrors.WithLabelValues(backend, operation).Inc()
	}
}

// RecordStoreFallback records a load that returned the empty default
func RecordStoreFallback(backend, reason string) {
	StoreFallbacks.WithLabelValues(backend, reason).Inc()
}

// RecordStoreHealth records the outcome of a store ping
func RecordStoreHealth(backend string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	StoreUp.WithLabelValues(backend).Set(v)
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements active request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCircuitBreakerTransition records a breaker state change.
// States are "closed", "half-open" and "open".
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(circuitStateValue(to))
}

func circuitStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}
