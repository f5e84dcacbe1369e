// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that the configuration is complete and within bounds.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	return c.validateSecurity()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT and HTTP_WRITE_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateStore validates the backend selection and its settings.
func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case "memory":
		return nil
	case "badger":
		if !c.Store.Badger.InMemory && strings.TrimSpace(c.Store.Badger.Path) == "" {
			return fmt.Errorf("BADGER_PATH is required when STORE_BACKEND=badger")
		}
		return nil
	case "redis":
		return c.validateRedis()
	default:
		return fmt.Errorf("STORE_BACKEND must be one of: memory, badger, redis")
	}
}

func (c *Config) validateRedis() error {
	r := c.Store.Redis
	if len(r.Addrs) == 0 {
		return fmt.Errorf("REDIS_ADDRS is required when STORE_BACKEND=redis")
	}
	if r.DB < 0 {
		return fmt.Errorf("REDIS_DB must not be negative")
	}
	if r.ReadTimeout < 0 || r.WriteTimeout < 0 {
		return fmt.Errorf("REDIS_READ_TIMEOUT and REDIS_WRITE_TIMEOUT must not be negative")
	}
	if r.BreakerThreshold == 0 {
		return fmt.Errorf("REDIS_BREAKER_THRESHOLD must be at least 1")
	}
	if r.BreakerTimeout < time.Second {
		return fmt.Errorf("REDIS_BREAKER_TIMEOUT must be at least 1s")
	}
	return nil
}

// validateRecommend validates scorer limits.
func (c *Config) validateRecommend() error {
	if c.Recommend.MaxItems < 1 {
		return fmt.Errorf("RECOMMEND_MAX_ITEMS must be at least 1")
	}
	if c.Recommend.StoreTimeout < 0 {
		return fmt.Errorf("RECOMMEND_STORE_TIMEOUT must not be negative")
	}
	return nil
}

// Rate limit bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateSecurity validates rate limiting, CORS and the admin token.
func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
			return fmt.Errorf("RATE_LIMIT_REQS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
		}
		if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
		}
	}

	if c.Security.AdminToken != "" && len(c.Security.AdminToken) < minAdminTokenLength {
		return fmt.Errorf("ADMIN_TOKEN must be at least %d characters", minAdminTokenLength)
	}
	if c.Security.AdminToken != "" && containsPlaceholder(c.Security.AdminToken) {
		return fmt.Errorf("ADMIN_TOKEN appears to be a placeholder value")
	}

	// An open reset endpoint with wildcard CORS is not accepted in production.
	if c.Server.IsProduction() && c.Security.AdminToken == "" && c.HasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* requires ADMIN_TOKEN in production")
	}
	return nil
}

const minAdminTokenLength = 16

// HasWildcardCORS reports whether any CORS origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"PLACEHOLDER",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns.
func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, p := range placeholderPatterns {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}
