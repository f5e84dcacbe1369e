// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/townsquare/internal/recommend"
)

// MemoryStore keeps encoded preference records in process memory.
// Records go through the same JSON codec as the durable backends.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	logger zerolog.Logger
}

// NewMemoryStore creates an empty in-memory store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMemoryStore(logger zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string][]byte),
		logger: logger.With().Str("component", "store").Str("backend", BackendMemory).Logger(),
	}
}

// Backend returns "memory".
func (s *MemoryStore) Backend() string { return BackendMemory }

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Load returns the stored preferences or the empty default.
func (s *MemoryStore) Load(_ context.Context, userID string) recommend.UserPreferences {
	start := time.Now()
	defer observe(BackendMemory, opLoad, start, nil)

	s.mu.RLock()
	data, ok := s.data[recommend.PreferencesKey(userID)]
	s.mu.RUnlock()

	if !ok {
		return recommend.NewUserPreferences()
	}
	return decodeOrDefault(s.logger, BackendMemory, userID, data)
}

// Save overwrites the stored preferences.
func (s *MemoryStore) Save(_ context.Context, userID string, prefs recommend.UserPreferences) (err error) {
	start := time.Now()
	defer func() { observe(BackendMemory, opSave, start, err) }()

	data, err := recommend.EncodePreferences(prefs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data[recommend.PreferencesKey(userID)] = data
	s.mu.Unlock()
	return nil
}

// Update applies fn under the store lock.
func (s *MemoryStore) Update(_ context.Context, userID string, fn func(*recommend.UserPreferences)) (err error) {
	start := time.Now()
	defer func() { observe(BackendMemory, opUpdate, start, err) }()

	key := recommend.PreferencesKey(userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := recommend.NewUserPreferences()
	if data, ok := s.data[key]; ok {
		prefs = decodeOrDefault(s.logger, BackendMemory, userID, data)
	}
	fn(&prefs)

	data, err := recommend.EncodePreferences(prefs)
	if err != nil {
		return err
	}
	s.data[key] = data
	return nil
}

// Delete removes the user's record. Deleting a missing record is not an error.
func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	start := time.Now()
	defer observe(BackendMemory, opDelete, start, nil)

	s.mu.Lock()
	delete(s.data, recommend.PreferencesKey(userID))
	s.mu.Unlock()
	return nil
}

// PutRaw stores raw bytes for userID, bypassing the codec.
// Used to seed records written by other clients.
func (s *MemoryStore) PutRaw(userID string, data []byte) {
	s.mu.Lock()
	s.data[recommend.PreferencesKey(userID)] = append([]byte(nil), data...)
	s.mu.Unlock()
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
