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

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/townsquare/internal/metrics"
	"github.com/tomtom215/townsquare/internal/recommend"
)

// BadgerConfig configures the embedded BadgerDB backend.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in RAM. Used by tests and ephemeral deployments.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool
}

// OpenBadger opens a BadgerDB for preference storage.
func OpenBadger(cfg BadgerConfig) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for preferences: %w", err)
	}
	return db, nil
}

// BadgerStore implements Store on top of BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// NewBadgerStore wraps an open BadgerDB. The caller owns db.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadgerStore(db *badger.DB, logger zerolog.Logger) *BadgerStore {
	return &BadgerStore{
		db:     db,
		logger: logger.With().Str("component", "store").Str("backend", BackendBadger).Logger(),
	}
}

// Backend returns "badger".
func (s *BadgerStore) Backend() string { return BackendBadger }

// Ping reports ErrClosed once the database has been closed.
func (s *BadgerStore) Ping(context.Context) error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Load returns the stored preferences or the empty default.
func (s *BadgerStore) Load(_ context.Context, userID string) recommend.UserPreferences {
	start := time.Now()

	var data []byte
	found := true
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(recommend.PreferencesKey(userID)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("get preferences: %w", err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	observe(BackendBadger, opLoad, start, err)

	if err != nil {
		return backendFallback(s.logger, BackendBadger, userID, err)
	}
	if !found {
		return recommend.NewUserPreferences()
	}
	return decodeOrDefault(s.logger, BackendBadger, userID, data)
}

// Save overwrites the stored preferences.
func (s *BadgerStore) Save(_ context.Context, userID string, prefs recommend.UserPreferences) (err error) {
	start := time.Now()
	defer func() { observe(BackendBadger, opSave, start, err) }()

	data, err := recommend.EncodePreferences(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(recommend.PreferencesKey(userID)), data); err != nil {
			return fmt.Errorf("set preferences: %w", err)
		}
		return nil
	})
}

// Update applies fn inside a read-write transaction. A commit that conflicts
// with a concurrent writer is retried with a fresh read.
func (s *BadgerStore) Update(ctx context.Context, userID string, fn func(*recommend.UserPreferences)) (err error) {
	start := time.Now()
	defer func() { observe(BackendBadger, opUpdate, start, err) }()

	key := []byte(recommend.PreferencesKey(userID))

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		err = s.db.Update(func(txn *badger.Txn) error {
			prefs := recommend.NewUserPreferences()

			item, err := txn.Get(key)
			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
			case err != nil:
				return fmt.Errorf("get preferences: %w", err)
			default:
				data, err := item.ValueCopy(nil)
				if err != nil {
					return fmt.Errorf("read preferences: %w", err)
				}
				prefs = decodeOrDefault(s.logger, BackendBadger, userID, data)
			}

			fn(&prefs)

			data, err := recommend.EncodePreferences(prefs)
			if err != nil {
				return err
			}
			return txn.Set(key, data)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}

		metrics.StoreUpdateRetries.WithLabelValues(BackendBadger).Inc()
		s.logger.Debug().
			Str("user_id", userID).
			Int("attempt", attempt).
			Msg("preference update conflicted, retrying")
	}

	return fmt.Errorf("update preferences after %d attempts: %w", maxUpdateAttempts, err)
}

// Delete removes the user's record. Deleting a missing record is not an error.
func (s *BadgerStore) Delete(_ context.Context, userID string) (err error) {
	start := time.Now()
	defer func() { observe(BackendBadger, opDelete, start, err) }()

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(recommend.PreferencesKey(userID))); err != nil {
			return fmt.Errorf("delete preferences: %w", err)
		}
		return nil
	})
}

// CollectGarbage runs one value log GC pass and reports whether a file was
// rewritten. Nothing to collect, an in-memory database and a concurrent GC
// are not errors.
func (s *BadgerStore) CollectGarbage(discardRatio float64) (bool, error) {
	err := s.db.RunValueLogGC(discardRatio)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrNoRewrite),
		errors.Is(err, badger.ErrGCInMemoryMode),
		errors.Is(err, badger.ErrRejected):
		if s.db.IsClosed() {
			return false, ErrClosed
		}
		return false, nil
	default:
		return false, fmt.Errorf("value log gc: %w", err)
	}
}
