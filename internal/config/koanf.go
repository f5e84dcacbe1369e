// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/townsquare/config.yaml",
	"/etc/townsquare/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the defaults applied before file and env layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Store: StoreConfig{
			Backend: "badger",
			Badger: BadgerStore{
				Path: "/data/preferences",
			},
			Redis: RedisStore{
				Addrs:            []string{"127.0.0.1:6379"},
				DialTimeout:      5 * time.Second,
				ReadTimeout:      3 * time.Second,
				WriteTimeout:     3 * time.Second,
				KeyPrefix:        "townsquare:",
				BreakerThreshold: 5,
				BreakerTimeout:   30 * time.Second,
			},
		},
		Recommend: RecommendConfig{
			MaxItems:     500,
			StoreTimeout: 2 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
}

// Load builds the configuration from three layers, later ones winning:
// struct defaults, an optional YAML file, then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first default
// path that exists, else "".
func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings from env.
var sliceConfigPaths = []string{
	"store.redis.addrs",
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}

		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			continue
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to config paths.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	"http_host":          "server.host",
	"http_port":          "server.port",
	"http_read_timeout":  "server.read_timeout",
	"http_write_timeout": "server.write_timeout",
	"shutdown_timeout":   "server.shutdown_timeout",
	"environment":        "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"store_backend":           "store.backend",
	"badger_path":             "store.badger.path",
	"badger_in_memory":        "store.badger.in_memory",
	"badger_sync_writes":      "store.badger.sync_writes",
	"redis_addrs":             "store.redis.addrs",
	"redis_master_name":       "store.redis.master_name",
	"redis_username":          "store.redis.username",
	"redis_password":          "store.redis.password",
	"redis_db":                "store.redis.db",
	"redis_dial_timeout":      "store.redis.dial_timeout",
	"redis_read_timeout":      "store.redis.read_timeout",
	"redis_write_timeout":     "store.redis.write_timeout",
	"redis_key_prefix":        "store.redis.key_prefix",
	"redis_breaker_threshold": "store.redis.breaker_threshold",
	"redis_breaker_timeout":   "store.redis.breaker_timeout",

	"recommend_max_items":     "recommend.max_items",
	"recommend_store_timeout": "recommend.store_timeout",

	"rate_limit_reqs":    "security.rate_limit_reqs",
	"rate_limit_window":  "security.rate_limit_window",
	"disable_rate_limit": "security.rate_limit_disabled",
	"cors_origins":       "security.cors_origins",
	"admin_token":        "security.admin_token",
}

// envTransformFunc maps an environment variable name to its koanf path.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - STORE_BACKEND -> store.backend
//   - REDIS_ADDRS -> store.redis.addrs
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
