// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

// Package main is the entry point for the Townsquare recommendation server.
//
// Townsquare ranks community topics and insights for a user. Each item gets a
// weighted score built from recency, engagement, personal affinity, diversity
// and trending velocity, and user interactions feed back into the per-user
// preference record.
//
// # Startup
//
//  1. Configuration: Koanf v2 layered over defaults, config.yaml and the environment
//  2. Logging: zerolog, JSON or console
//  3. Preference store: memory, BadgerDB or Redis
//  4. Scorer and tracker
//  5. HTTP API: chi router with CORS, rate limiting and Prometheus metrics
//  6. Supervisor tree: HTTP server, store health monitor and, on badger, value log GC
//
// # Configuration
//
// Common environment variables:
//
//	HTTP_PORT=8080
//	STORE_BACKEND=badger        # memory, badger, redis
//	BADGER_PATH=/data/preferences
//	REDIS_ADDRS=redis:6379
//	ADMIN_TOKEN=...             # required to reset preferences
//	LOG_LEVEL=info
//
// See the config package for the full list.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests for SHUTDOWN_TIMEOUT, then the preference store is
// closed.
package main
