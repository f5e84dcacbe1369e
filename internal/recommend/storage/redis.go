// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/townsquare/internal/metrics"
	"github.com/tomtom215/townsquare/internal/recommend"
)

const defaultDialTimeout = 5 * time.Second

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	// Addrs holds one address for a standalone server, several for a cluster.
	Addrs      []string
	MasterName string // sentinel only
	Username   string
	Password   string
	DB         int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// KeyPrefix namespaces keys when the server is shared, e.g. "townsquare:".
	KeyPrefix string

	Breaker BreakerConfig
}

// BreakerConfig configures the circuit breaker around Redis calls.
type BreakerConfig struct {
	// FailureThreshold is the consecutive failure count that opens the breaker.
	FailureThreshold uint32
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
	// MaxRequests is the probe budget while half-open.
	MaxRequests uint32
}

// DefaultBreakerConfig returns the breaker defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

// NewRedisClient creates a client for single-node, sentinel or cluster
// deployments and verifies connectivity.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (goredis.UniversalClient, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("at least one redis address is required")
	}

	dial := cfg.DialTimeout
	if dial == 0 {
		dial = defaultDialTimeout
	}

	client := goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs:        cfg.Addrs,
		MasterName:   cfg.MasterName,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dial,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dial)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisStore implements Store on Redis. Calls run through a circuit breaker
// so an unreachable server degrades ranking to default preferences quickly.
type RedisStore struct {
	client goredis.UniversalClient
	prefix string
	cb     *gobreaker.CircuitBreaker[[]byte]
	name   string
	logger zerolog.Logger
}

// NewRedisStore wraps an existing client. The caller owns client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRedisStore(client goredis.UniversalClient, prefix string, bc BreakerConfig, logger zerolog.Logger) *RedisStore {
	if bc.FailureThreshold == 0 {
		bc = DefaultBreakerConfig()
	}

	s := &RedisStore{
		client: client,
		prefix: prefix,
		name:   "redis-preferences",
		logger: logger.With().Str("component", "store").Str("backend", BackendRedis).Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(s.name).Set(0)

	s.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        s.name,
		MaxRequests: bc.MaxRequests,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bc.FailureThreshold
		},
		// A lost optimistic race says nothing about server health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, goredis.TxFailedErr)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	})

	return s
}

// Backend returns "redis".
func (s *RedisStore) Backend() string { return BackendRedis }

func (s *RedisStore) key(userID string) string {
	return s.prefix + recommend.PreferencesKey(userID)
}

// execute runs fn through the breaker and records the outcome.
func (s *RedisStore) execute(fn func() ([]byte, error)) ([]byte, error) {
	data, err := s.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
	}
	return data, err
}

// Ping checks the server, bypassing the breaker.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Load returns the stored preferences or the empty default.
func (s *RedisStore) Load(ctx context.Context, userID string) recommend.UserPreferences {
	start := time.Now()

	data, err := s.execute(func() ([]byte, error) {
		b, err := s.client.Get(ctx, s.key(userID)).Bytes()
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return b, err
	})
	observe(BackendRedis, opLoad, start, err)

	if err != nil {
		return backendFallback(s.logger, BackendRedis, userID, err)
	}
	if data == nil {
		return recommend.NewUserPreferences()
	}
	return decodeOrDefault(s.logger, BackendRedis, userID, data)
}

// Save overwrites the stored preferences.
func (s *RedisStore) Save(ctx context.Context, userID string, prefs recommend.UserPreferences) (err error) {
	start := time.Now()
	defer func() { observe(BackendRedis, opSave, start, err) }()

	data, err := recommend.EncodePreferences(prefs)
	if err != nil {
		return err
	}

	_, err = s.execute(func() ([]byte, error) {
		return nil, s.client.Set(ctx, s.key(userID), data, 0).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Update applies fn with WATCH/MULTI so concurrent writers on other
// replicas cannot overwrite each other. Lost races are retried.
func (s *RedisStore) Update(ctx context.Context, userID string, fn func(*recommend.UserPreferences)) (err error) {
	start := time.Now()
	defer func() { observe(BackendRedis, opUpdate, start, err) }()

	key := s.key(userID)

	txf := func(tx *goredis.Tx) error {
		prefs := recommend.NewUserPreferences()

		b, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, goredis.Nil):
		case err != nil:
			return err
		default:
			prefs = decodeOrDefault(s.logger, BackendRedis, userID, b)
		}

		fn(&prefs)

		data, err := recommend.EncodePreferences(prefs)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		_, err = s.execute(func() ([]byte, error) {
			return nil, s.client.Watch(ctx, txf, key)
		})
		if !errors.Is(err, goredis.TxFailedErr) {
			if err != nil {
				return fmt.Errorf("redis update: %w", err)
			}
			return nil
		}

		metrics.StoreUpdateRetries.WithLabelValues(BackendRedis).Inc()
		s.logger.Debug().
			Str("user_id", userID).
			Int("attempt", attempt).
			Msg("preference update lost a race, retrying")
	}

	return fmt.Errorf("update preferences after %d attempts: %w", maxUpdateAttempts, err)
}

// Delete removes the user's record.
func (s *RedisStore) Delete(ctx context.Context, userID string) (err error) {
	start := time.Now()
	defer func() { observe(BackendRedis, opDelete, start, err) }()

	_, err = s.execute(func() ([]byte, error) {
		return nil, s.client.Del(ctx, s.key(userID)).Err()
	})
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// BreakerState returns the current breaker state name.
func (s *RedisStore) BreakerState() string {
	return s.cb.State().String()
}
