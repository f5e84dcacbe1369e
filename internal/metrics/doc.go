// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics by the API router.

# Available Metrics

Ranking:
  - townsquare_rank_requests_total{kind}
  - townsquare_rank_duration_seconds{kind}
  - townsquare_rank_items_scored_total{kind}
  - townsquare_rank_batch_size
  - townsquare_rank_rejected_total

Interactions:
  - townsquare_interactions_tracked_total
  - townsquare_interaction_errors_total
  - townsquare_preference_resets_total

Preference store:
  - townsquare_store_operation_duration_seconds{backend,operation}
  - townsquare_store_errors_total{backend,operation}
  - townsquare_store_fallbacks_total{backend,reason}
  - townsquare_store_update_retries_total{backend}

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Circuit breaker (Redis backend):
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

# Usage

	start := time.Now()
	ranked := scorer.ScoreTopics(ctx, userID, topics)
	metrics.RecordRank("topic", len(ranked), time.Since(start))

# Thread Safety

All metric operations are safe for concurrent use.
*/
package metrics
