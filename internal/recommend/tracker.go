// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Tracker records user interactions into the preference store.
// It is safe for concurrent use; writes for the same user are serialized.
type Tracker struct {
	store   PreferenceStore
	updater PreferenceUpdater
	config  *Config
	logger  zerolog.Logger

	locks *keyedMutex

	trackCount atomic.Int64
	errorCount atomic.Int64
}

// NewTracker creates a tracker backed by store. When the store also
// implements PreferenceUpdater, interactions are applied atomically in
// the store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTracker(store PreferenceStore, cfg *Config, logger zerolog.Logger) (*Tracker, error) {
	if store == nil {
		return nil, fmt.Errorf("preference store is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	t := &Tracker{
		store:  store,
		config: cfg,
		logger: logger.With().Str("component", "tracker").Logger(),
		locks:  newKeyedMutex(),
	}
	if u, ok := store.(PreferenceUpdater); ok {
		t.updater = u
	}
	return t, nil
}

// TrackInteraction records that userID interacted with contentID.
//
// The category counter (when category is non-nil and non-empty) and each
// tag counter are incremented by one, and contentID is prepended to the
// interaction history, which is then truncated to MaxLastInteractions.
// Missing or corrupt stored data is treated as an empty record; only a
// failed write is reported.
func (t *Tracker) TrackInteraction(ctx context.Context, userID, contentID string, category *string, tags []string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if contentID == "" {
		return ErrEmptyContentID
	}

	unlock := t.locks.Lock(userID)
	defer unlock()

	ctx, cancel := withStoreTimeout(ctx, t.config.StoreTimeout)
	defer cancel()

	apply := func(p *UserPreferences) {
		ApplyInteraction(p, contentID, stringOrEmpty(category), tags)
	}

	var err error
	if t.updater != nil {
		err = t.updater.Update(ctx, userID, apply)
	} else {
		prefs := t.store.Load(ctx, userID)
		apply(&prefs)
		err = t.store.Save(ctx, userID, prefs)
	}

	if err != nil {
		t.errorCount.Add(1)
		t.logger.Error().Err(err).
			Str("user_id", userID).
			Str("content_id", contentID).
			Msg("failed to save interaction")
		return fmt.Errorf("track interaction: %w", err)
	}

	t.trackCount.Add(1)
	t.logger.Debug().
		Str("user_id", userID).
		Str("content_id", contentID).
		Int("tags", len(tags)).
		Msg("tracked interaction")
	return nil
}

// Reset removes all stored preferences for userID.
func (t *Tracker) Reset(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	unlock := t.locks.Lock(userID)
	defer unlock()

	ctx, cancel := withStoreTimeout(ctx, t.config.StoreTimeout)
	defer cancel()

	if err := t.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("reset preferences: %w", err)
	}
	t.logger.Info().Str("user_id", userID).Msg("preferences reset")
	return nil
}

// TrackerStats is a snapshot of tracker counters.
type TrackerStats struct {
	TrackCount int64 `json:"track_count"`
	ErrorCount int64 `json:"error_count"`
}

// GetStats returns the current tracker counters.
func (t *Tracker) GetStats() TrackerStats {
	return TrackerStats{
		TrackCount: t.trackCount.Load(),
		ErrorCount: t.errorCount.Load(),
	}
}

// ApplyInteraction mutates prefs in place for a single interaction.
func ApplyInteraction(prefs *UserPreferences, contentID, category string, tags []string) {
	prefs.normalize()

	if category != "" {
		prefs.Categories[category]++
	}
	for _, tag := range tags {
		prefs.Tags[tag]++
	}

	history := make([]string, 0, MaxLastInteractions)
	history = append(history, contentID)
	history = append(history, prefs.LastInteractions...)
	if len(history) > MaxLastInteractions {
		history = history[:MaxLastInteractions]
	}
	prefs.LastInteractions = history
}

// keyedMutex hands out one mutex per key and drops it once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock acquires the mutex for key and returns its release function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
