// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages.
// Storage backends live in the storage subpackage and plug in through
// PreferenceStore.

// Scorer ranks content for a user. It is safe for concurrent use.
type Scorer struct {
	store  PreferenceStore
	config *Config
	logger zerolog.Logger
	now    func() time.Time

	requestCount atomic.Int64
	itemsScored  atomic.Int64
	rejectCount  atomic.Int64
}

// Stats is a snapshot of scorer counters.
type Stats struct {
	RequestCount int64 `json:"request_count"`
	ItemsScored  int64 `json:"items_scored"`
	RejectCount  int64 `json:"reject_count"`
}

// Option customizes a Scorer or Tracker.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now as the reference time for age-based features.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewScorer creates a scorer backed by store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScorer(store PreferenceStore, cfg *Config, logger zerolog.Logger, opts ...Option) (*Scorer, error) {
	if store == nil {
		return nil, fmt.Errorf("preference store is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := buildOptions(opts)

	return &Scorer{
		store:  store,
		config: cfg,
		logger: logger.With().Str("component", "scorer").Logger(),
		now:    o.now,
	}, nil
}

// CheckBatch reports ErrTooManyItems when n exceeds the configured limit.
func (s *Scorer) CheckBatch(n int) error {
	if n > s.config.MaxItems {
		s.rejectCount.Add(1)
		return fmt.Errorf("%w: %d > %d", ErrTooManyItems, n, s.config.MaxItems)
	}
	return nil
}

// Preferences returns the user's current preference record.
func (s *Scorer) Preferences(ctx context.Context, userID string) UserPreferences {
	ctx, cancel := withStoreTimeout(ctx, s.config.StoreTimeout)
	defer cancel()
	return s.store.Load(ctx, userID)
}

// ScoreTopics returns a new slice of topics, each carrying its
// RecommendationScore, sorted by descending score. Ties are ordered by ID.
// The input slice is not modified.
func (s *Scorer) ScoreTopics(ctx context.Context, userID string, topics []Topic) []Topic {
	explained := s.ExplainTopics(ctx, userID, topics)
	out := make([]Topic, len(explained))
	for i := range explained {
		out[i] = explained[i].Item
	}
	return out
}

// ScoreInsights is the Insight counterpart of ScoreTopics.
func (s *Scorer) ScoreInsights(ctx context.Context, userID string, insights []Insight) []Insight {
	explained := s.ExplainInsights(ctx, userID, insights)
	out := make([]Insight, len(explained))
	for i := range explained {
		out[i] = explained[i].Item
	}
	return out
}

// ExplainTopics ranks topics like ScoreTopics and keeps the feature
// breakdown behind each score.
func (s *Scorer) ExplainTopics(ctx context.Context, userID string, topics []Topic) []Explained[Topic] {
	prefs := s.Preferences(ctx, userID)
	now := s.now()

	out := make([]Explained[Topic], len(topics))
	for i := range topics {
		t := topics[i]
		f := computeFeatures(topicInput(&t), prefs, now)
		score := f.Score()
		t.RecommendationScore = &score
		out[i] = Explained[Topic]{Item: t, Features: f}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return rankBefore(*out[i].Item.RecommendationScore, *out[j].Item.RecommendationScore, out[i].Item.ID, out[j].Item.ID)
	})

	s.record(KindTopic, userID, len(out))
	return out
}

// ExplainInsights ranks insights like ScoreInsights and keeps the feature
// breakdown behind each score.
func (s *Scorer) ExplainInsights(ctx context.Context, userID string, insights []Insight) []Explained[Insight] {
	prefs := s.Preferences(ctx, userID)
	now := s.now()

	out := make([]Explained[Insight], len(insights))
	for i := range insights {
		in := insights[i]
		f := computeFeatures(insightInput(&in), prefs, now)
		score := f.Score()
		in.RecommendationScore = &score
		out[i] = Explained[Insight]{Item: in, Features: f}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return rankBefore(*out[i].Item.RecommendationScore, *out[j].Item.RecommendationScore, out[i].Item.ID, out[j].Item.ID)
	})

	s.record(KindInsight, userID, len(out))
	return out
}

// rankBefore orders by descending score, then ascending ID.
func rankBefore(scoreA, scoreB float64, idA, idB string) bool {
	if scoreA != scoreB {
		return scoreA > scoreB
	}
	return idA < idB
}

func (s *Scorer) record(kind ContentKind, userID string, n int) {
	s.requestCount.Add(1)
	s.itemsScored.Add(int64(n))

	s.logger.Debug().
		Str("kind", kind.String()).
		Str("user_id", userID).
		Int("items", n).
		Msg("ranked content")
}

// GetStats returns the current scorer counters.
func (s *Scorer) GetStats() Stats {
	return Stats{
		RequestCount: s.requestCount.Load(),
		ItemsScored:  s.itemsScored.Load(),
		RejectCount:  s.rejectCount.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (s *Scorer) GetConfig() *Config {
	return s.config.Clone()
}

// withStoreTimeout bounds ctx by d when d is positive.
func withStoreTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
