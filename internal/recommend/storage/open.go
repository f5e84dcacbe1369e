// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Config selects and configures a backend.
type Config struct {
	// Backend is one of "memory", "badger" or "redis".
	Backend string
	Badger  BadgerConfig
	Redis   RedisConfig
}

// Handle owns an opened store and the resources behind it.
type Handle struct {
	Store   Store
	closers []io.Closer
}

// Close releases the backend's resources.
func (h *Handle) Close() error {
	var errs []error
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	h.closers = nil
	return errors.Join(errs...)
}

// Open creates the configured backend. An empty Backend selects memory.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Handle, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return &Handle{Store: NewMemoryStore(logger)}, nil

	case BackendBadger:
		db, err := OpenBadger(cfg.Badger)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Str("path", cfg.Badger.Path).
			Bool("in_memory", cfg.Badger.InMemory).
			Msg("opened badger preference store")
		return &Handle{Store: NewBadgerStore(db, logger), closers: []io.Closer{db}}, nil

	case BackendRedis:
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Strs("addrs", cfg.Redis.Addrs).
			Msg("connected redis preference store")
		store := NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Redis.Breaker, logger)
		return &Handle{Store: store, closers: []io.Closer{client}}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
