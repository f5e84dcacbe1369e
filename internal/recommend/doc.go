// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

// Package recommend ranks community content for a user.
//
// # Architecture
//
// Ranking blends five normalized features per item:
//
//   - Time decay: exp(-hours/12)
//   - Engagement: log-scaled (likes + 2*replies) / views
//   - Affinity: match against the user's category and tag counters
//   - Diversity: penalty for content seen recently
//   - Trending: engagement velocity inside a 72 hour window
//
// The weighted sum uses fixed weights (0.25, 0.25, 0.20, 0.15, 0.15).
//
// Per-user preferences live behind PreferenceStore. The Tracker mutates
// them on every interaction; the Scorer only reads them. Backends are in
// the storage subpackage.
//
// # Usage
//
//	store := storage.NewMemoryStore(logger)
//	scorer, _ := recommend.NewScorer(store, recommend.DefaultConfig(), logger)
//	tracker, _ := recommend.NewTracker(store, recommend.DefaultConfig(), logger)
//
//	_ = tracker.TrackInteraction(ctx, userID, "t-1", nil, []string{"ml"})
//	ranked := scorer.ScoreTopics(ctx, userID, topics)
//
// # Thread Safety
//
// Scorer and Tracker are safe for concurrent use. The Tracker serializes
// writes per user and uses PreferenceUpdater when the store provides it,
// so concurrent interactions for one user are never lost.
package recommend
