// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

/*
Package config loads service configuration.

Configuration is layered with koanf. Each layer overrides the previous one:

 1. Struct defaults (defaultConfig)
 2. A YAML file: CONFIG_PATH, or the first of DefaultConfigPaths that exists
 3. Environment variables listed in envMappings

Comma-separated environment values are split for list fields
(REDIS_ADDRS, CORS_ORIGINS).

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default 0.0.0.0:8080)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging or production

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default info)
  - LOG_FORMAT: json or console (default json)
  - LOG_CALLER: include caller location

Preference store:
  - STORE_BACKEND: memory, badger or redis (default badger)
  - BADGER_PATH, BADGER_IN_MEMORY, BADGER_SYNC_WRITES
  - REDIS_ADDRS, REDIS_MASTER_NAME, REDIS_USERNAME, REDIS_PASSWORD, REDIS_DB
  - REDIS_DIAL_TIMEOUT, REDIS_READ_TIMEOUT, REDIS_WRITE_TIMEOUT, REDIS_KEY_PREFIX
  - REDIS_BREAKER_THRESHOLD, REDIS_BREAKER_TIMEOUT

Ranking:
  - RECOMMEND_MAX_ITEMS: largest accepted batch (default 500)
  - RECOMMEND_STORE_TIMEOUT: per-call store deadline (default 2s)

Security:
  - RATE_LIMIT_REQS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS
  - ADMIN_TOKEN: bearer token required to reset preferences

# Example

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	fmt.Println(cfg.Server.Addr())
*/
package config
