// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

/*
Package api exposes the scorer and tracker over HTTP using the chi router.

# Endpoints

	GET    /api/v1/health/live                    liveness
	GET    /api/v1/health/ready                   preference store ping
	GET    /api/v1/health                         status summary
	POST   /api/v1/users/{userID}/rank/topics     rank topics
	POST   /api/v1/users/{userID}/rank/insights   rank insights
	POST   /api/v1/users/{userID}/interactions    record an interaction (204)
	GET    /api/v1/users/{userID}/preferences     current preferences
	DELETE /api/v1/users/{userID}/preferences     reset preferences (admin token)
	GET    /metrics                               Prometheus

Ranking bodies are {"items": [...], "explain": bool}. With explain set,
each entry is {"item": ..., "features": {...}}. Batches above the configured
maximum are rejected with 400 TOO_MANY_ITEMS.

# Responses

Every JSON response uses APIResponse:

	{"success": true, "data": ..., "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 1}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "..."}, "meta": {...}}

# Middleware

Request ID, real IP, access log, panic recovery and CORS apply globally.
User routes add httprate limiting by IP, security headers, Prometheus
instrumentation and gzip. DELETE on preferences also requires the admin
bearer token when one is configured.
*/
package api
