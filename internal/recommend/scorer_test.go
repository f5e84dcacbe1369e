// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeStore is an in-package PreferenceStore for tests.
type fakeStore struct {
	mu        sync.Mutex
	data      map[string]UserPreferences
	saveErr   error
	loadCalls atomic.Int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]UserPreferences)}
}

func (f *fakeStore) Load(ctx context.Context, userID string) UserPreferences {
	f.loadCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.data[userID]
	if !ok {
		return NewUserPreferences()
	}
	return p.Clone()
}

func (f *fakeStore) Save(ctx context.Context, userID string, prefs UserPreferences) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[userID] = prefs.Clone()
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, userID)
	return nil
}

func intPtr(v int) *int            { return &v }
func strPtr(v string) *string      { return &v }
func fixedClock() func() time.Time { return func() time.Time { return testNow } }

func newTestScorer(t *testing.T, store PreferenceStore) *Scorer {
	t.Helper()
	s, err := NewScorer(store, DefaultConfig(), zerolog.Nop(), WithClock(fixedClock()))
	if err != nil {
		t.Fatalf("NewScorer() error = %v", err)
	}
	return s
}

func TestNewScorer(t *testing.T) {
	t.Parallel()

	t.Run("nil store", func(t *testing.T) {
		t.Parallel()
		if _, err := NewScorer(nil, nil, zerolog.Nop()); err == nil {
			t.Error("expected error for nil store")
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		_, err := NewScorer(newFakeStore(), &Config{MaxItems: 0}, zerolog.Nop())
		if err == nil {
			t.Error("expected error for invalid config")
		}
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		t.Parallel()
		s, err := NewScorer(newFakeStore(), nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewScorer() error = %v", err)
		}
		if got := s.GetConfig().MaxItems; got != DefaultConfig().MaxItems {
			t.Errorf("MaxItems = %d, want %d", got, DefaultConfig().MaxItems)
		}
	})
}

func TestScoreInsights_FreshInsightScenario(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t, newFakeStore())
	insights := []Insight{{
		ID:         "a",
		CreatedAt:  testNow,
		LikesCount: intPtr(0),
		ViewsCount: intPtr(1),
	}}

	got := s.ScoreInsights(context.Background(), "u1", insights)
	if len(got) != 1 || got[0].RecommendationScore == nil {
		t.Fatalf("ScoreInsights() = %+v, want one scored insight", got)
	}
	if score := *got[0].RecommendationScore; !approxEqual(score, 0.50, 0.01) {
		t.Errorf("score = %v, want ~0.50", score)
	}
}

func TestExplainTopics_StaleTopicScenario(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t, newFakeStore())
	topics := []Topic{{
		ID:           "b",
		CreatedAt:    hoursAgo(100),
		RepliesCount: intPtr(50),
		Views:        intPtr(100),
	}}

	got := s.ExplainTopics(context.Background(), "u1", topics)
	if len(got) != 1 {
		t.Fatalf("ExplainTopics() returned %d items, want 1", len(got))
	}

	f := got[0].Features
	if f.Trending != 0 {
		t.Errorf("Trending = %v, want 0", f.Trending)
	}
	if !approxEqual(f.TimeDecay, math.Exp(-100.0/12), 1e-9) || f.TimeDecay > 0.001 {
		t.Errorf("TimeDecay = %v, want ~0.0002", f.TimeDecay)
	}
	if f.Engagement != 1 {
		t.Errorf("Engagement = %v, want 1 (saturated)", f.Engagement)
	}

	// trending contributes nothing beyond the window
	want := f.TimeDecay*WeightTimeDecay + 1*WeightEngagement + 0.5*WeightAffinity + 1*WeightDiversity
	if !approxEqual(*got[0].Item.RecommendationScore, want, 1e-9) {
		t.Errorf("score = %v, want %v", *got[0].Item.RecommendationScore, want)
	}
}

func TestScoreTopics_SortedDescending(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	_ = store.Save(context.Background(), "u1", UserPreferences{
		Tags:             map[string]int{"go": 4},
		LastInteractions: []string{"t-seen"},
	})
	s := newTestScorer(t, store)

	topics := []Topic{
		{ID: "t-old", CreatedAt: hoursAgo(200)},
		{ID: "t-seen", CreatedAt: hoursAgo(1), Tags: []string{"go"}},
		{ID: "t-hot", CreatedAt: hoursAgo(2), RepliesCount: intPtr(40), Views: intPtr(50)},
		{ID: "t-new", CreatedAt: testNow},
		{ID: "t-mid", CreatedAt: hoursAgo(12), Views: intPtr(10)},
	}

	got := s.ScoreTopics(context.Background(), "u1", topics)
	if len(got) != len(topics) {
		t.Fatalf("len = %d, want %d", len(got), len(topics))
	}

	for i := range got {
		if got[i].RecommendationScore == nil {
			t.Fatalf("item %s has no score", got[i].ID)
		}
		if i > 0 && *got[i-1].RecommendationScore < *got[i].RecommendationScore {
			t.Errorf("not sorted at %d: %v < %v", i, *got[i-1].RecommendationScore, *got[i].RecommendationScore)
		}
	}
	if got[0].ID != "t-hot" {
		t.Errorf("first = %s, want t-hot", got[0].ID)
	}
	if got[len(got)-1].ID != "t-old" {
		t.Errorf("last = %s, want t-old", got[len(got)-1].ID)
	}

	for _, in := range topics {
		if in.RecommendationScore != nil {
			t.Errorf("input %s was mutated", in.ID)
		}
	}
}

func TestScoreTopics_TiesOrderedByID(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t, newFakeStore())
	topics := []Topic{
		{ID: "c", CreatedAt: testNow},
		{ID: "a", CreatedAt: testNow},
		{ID: "b", CreatedAt: testNow},
	}

	got := s.ScoreTopics(context.Background(), "u1", topics)
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	if fmt.Sprint(ids) != "[a b c]" {
		t.Errorf("order = %v, want [a b c]", ids)
	}
}

func TestScoreInsights_CategoryAffinity(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	_ = store.Save(context.Background(), "u1", UserPreferences{
		Categories: map[string]int{"ai-tools": 3},
	})
	s := newTestScorer(t, store)

	// Tags are ignored for insights, so an unmatched category stays neutral.
	got := s.ExplainInsights(context.Background(), "u1", []Insight{
		{ID: "x", CreatedAt: testNow, Category: strPtr("ai-tools")},
		{ID: "y", CreatedAt: testNow, Category: strPtr("design"), Tags: []string{"ai-tools"}},
	})
	for _, e := range got {
		if e.Features.Affinity != 0.5 {
			t.Errorf("%s affinity = %v, want 0.5", e.Item.ID, e.Features.Affinity)
		}
	}
}

func TestScorer_LoadsPreferencesOncePerCall(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	s := newTestScorer(t, store)

	topics := make([]Topic, 20)
	for i := range topics {
		topics[i] = Topic{ID: fmt.Sprintf("t-%d", i), CreatedAt: hoursAgo(float64(i))}
	}
	s.ScoreTopics(context.Background(), "u1", topics)

	if n := store.loadCalls.Load(); n != 1 {
		t.Errorf("Load called %d times, want 1", n)
	}
}

func TestScorer_EmptyInput(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t, newFakeStore())
	if got := s.ScoreTopics(context.Background(), "u1", nil); len(got) != 0 {
		t.Errorf("ScoreTopics(nil) = %v, want empty", got)
	}
	if got := s.ScoreInsights(context.Background(), "u1", []Insight{}); len(got) != 0 {
		t.Errorf("ScoreInsights(empty) = %v, want empty", got)
	}
}

func TestScorer_CheckBatch(t *testing.T) {
	t.Parallel()

	s, err := NewScorer(newFakeStore(), &Config{MaxItems: 3}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewScorer() error = %v", err)
	}

	if err := s.CheckBatch(3); err != nil {
		t.Errorf("CheckBatch(3) error = %v", err)
	}
	if err := s.CheckBatch(4); !errors.Is(err, ErrTooManyItems) {
		t.Errorf("CheckBatch(4) error = %v, want ErrTooManyItems", err)
	}
	if got := s.GetStats().RejectCount; got != 1 {
		t.Errorf("RejectCount = %d, want 1", got)
	}
}

func TestScorer_GetStats(t *testing.T) {
	t.Parallel()

	s := newTestScorer(t, newFakeStore())
	s.ScoreTopics(context.Background(), "u1", []Topic{{ID: "a", CreatedAt: testNow}, {ID: "b", CreatedAt: testNow}})
	s.ScoreInsights(context.Background(), "u1", []Insight{{ID: "c", CreatedAt: testNow}})

	stats := s.GetStats()
	if stats.RequestCount != 2 {
		t.Errorf("RequestCount = %d, want 2", stats.RequestCount)
	}
	if stats.ItemsScored != 3 {
		t.Errorf("ItemsScored = %d, want 3", stats.ItemsScored)
	}
}
