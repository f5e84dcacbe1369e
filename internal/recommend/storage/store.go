// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/townsquare/internal/metrics"
	"github.com/tomtom215/townsquare/internal/recommend"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Operation labels used in metrics.
const (
	opLoad   = "load"
	opSave   = "save"
	opUpdate = "update"
	opDelete = "delete"
)

// maxUpdateAttempts bounds optimistic retries after a write conflict.
const maxUpdateAttempts = 3

// Store is a preference store that can also update atomically and report
// its health.
type Store interface {
	recommend.PreferenceStore
	recommend.PreferenceUpdater

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Backend returns the backend name.
	Backend() string
}

// Compile-time interface checks.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*BadgerStore)(nil)
	_ Store = (*RedisStore)(nil)
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("preference store is closed")

// observe records the duration and outcome of one store operation.
func observe(backend, op string, start time.Time, err error) {
	metrics.RecordStoreOperation(backend, op, time.Since(start), err)
}

// decodeOrDefault decodes a stored record, logging and counting corrupt values.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func decodeOrDefault(logger zerolog.Logger, backend, userID string, data []byte) recommend.UserPreferences {
	prefs, err := recommend.DecodePreferences(data)
	if err != nil {
		metrics.RecordStoreFallback(backend, "corrupt")
		logger.Warn().Err(err).
			Str("user_id", userID).
			Msg("stored preferences are unreadable, using defaults")
		return recommend.NewUserPreferences()
	}
	return prefs
}

// backendFallback logs and counts a load that failed in the backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func backendFallback(logger zerolog.Logger, backend, userID string, err error) recommend.UserPreferences {
	metrics.RecordStoreFallback(backend, "backend_error")
	logger.Error().Err(err).
		Str("user_id", userID).
		Msg("preference load failed, using defaults")
	return recommend.NewUserPreferences()
}
