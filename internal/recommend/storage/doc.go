// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

// Package storage provides recommend.PreferenceStore backends.
//
// Three backends are available:
//
//   - memory: process-local map, lost on restart
//   - badger: embedded BadgerDB, durable on a single node
//   - redis: shared across replicas, guarded by a circuit breaker
//
// Every backend stores one JSON record per user under
// recommend.PreferencesKey(userID) and implements recommend.PreferenceUpdater
// so interaction tracking is an atomic read-modify-write.
//
// Load never returns an error. Missing keys, corrupt values and backend
// failures all produce the empty default record; corrupt values and
// failures are logged and counted in townsquare_store_fallbacks_total.
//
// # Usage
//
//	h, err := storage.Open(storage.Config{Backend: storage.BackendBadger,
//	    Badger: storage.BadgerConfig{Path: "/data/preferences"}}, logger)
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	scorer, _ := recommend.NewScorer(h.Store, cfg, logger)
package storage
