// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package recommend

import (
	"fmt"
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func hoursAgo(h float64) time.Time {
	return testNow.Add(-time.Duration(h * float64(time.Hour)))
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestTimeDecay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		hours float64
		want  float64
		tol   float64
	}{
		{"at creation", 0, 1.0, 1e-9},
		{"six hours", 6, 0.6065, 0.001},
		{"one day", 24, 0.1353, 0.001},
		{"one week", 168, 8.3e-7, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TimeDecay(hoursAgo(tt.hours), testNow)
			if !approxEqual(got, tt.want, tt.tol) {
				t.Errorf("TimeDecay(%vh) = %v, want %v", tt.hours, got, tt.want)
			}
		})
	}

	t.Run("future timestamps clamp to one", func(t *testing.T) {
		t.Parallel()
		if got := TimeDecay(testNow.Add(time.Hour), testNow); got != 1.0 {
			t.Errorf("TimeDecay(future) = %v, want 1.0", got)
		}
	})

	t.Run("monotonically non-increasing", func(t *testing.T) {
		t.Parallel()
		prev := TimeDecay(testNow, testNow)
		for h := 1; h <= 500; h++ {
			cur := TimeDecay(hoursAgo(float64(h)), testNow)
			if cur > prev {
				t.Fatalf("decay increased at %dh: %v > %v", h, cur, prev)
			}
			if cur < 0 {
				t.Fatalf("decay negative at %dh: %v", h, cur)
			}
			prev = cur
		}
	})
}

func TestEngagementScore(t *testing.T) {
	t.Parallel()

	t.Run("bounded for non-negative inputs", func(t *testing.T) {
		t.Parallel()
		counts := []int{0, 1, 2, 10, 100, 1000, 1000000}
		for _, likes := range counts {
			for _, replies := range counts {
				for _, views := range counts {
					got := EngagementScore(likes, replies, views)
					if got < 0 || got > 1 || math.IsNaN(got) {
						t.Fatalf("EngagementScore(%d,%d,%d) = %v, out of [0,1]", likes, replies, views, got)
					}
				}
			}
		}
	})

	tests := []struct {
		name    string
		likes   int
		replies int
		views   int
		want    float64
	}{
		{"no engagement", 0, 0, 100, 0},
		{"zero views floored", 0, 0, 0, 0},
		{"one like per view saturates", 100, 0, 100, 1},
		{"replies count double", 0, 1, 100, math.Log10(3) / 2},
		{"one like in hundred views", 1, 0, 100, math.Log10(2) / 2},
		{"negative counters treated as zero", -5, -5, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := EngagementScore(tt.likes, tt.replies, tt.views)
			if !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("EngagementScore(%d,%d,%d) = %v, want %v", tt.likes, tt.replies, tt.views, got, tt.want)
			}
		})
	}
}

func TestPreferenceScore(t *testing.T) {
	t.Parallel()

	t.Run("empty store is neutral", func(t *testing.T) {
		t.Parallel()
		empty := NewUserPreferences()
		inputs := []struct {
			category string
			tags     []string
		}{
			{"", nil},
			{"ai-tools", nil},
			{"", []string{"ml", "nlp"}},
			{"design", []string{"ux"}},
		}
		for _, in := range inputs {
			if got := PreferenceScore(empty, in.category, in.tags); got != 0.5 {
				t.Errorf("PreferenceScore(%q, %v) = %v, want 0.5", in.category, in.tags, got)
			}
		}
	})

	prefs := UserPreferences{
		Categories: map[string]int{"ai-tools": 3},
		Tags:       map[string]int{"ml": 2, "nlp": 1},
	}

	tests := []struct {
		name     string
		category string
		tags     []string
		want     float64
	}{
		{"unmatched is neutral", "design", []string{"ux"}, 0.5},
		{"category match", "ai-tools", nil, 0.5},
		{"tag matches", "", []string{"ml", "nlp"}, 0.5},
		{"mixed match", "ai-tools", []string{"ml", "ux"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := PreferenceScore(prefs, tt.category, tt.tags)
			if !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("PreferenceScore(%q, %v) = %v, want %v", tt.category, tt.tags, got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("PreferenceScore out of range: %v", got)
			}
		})
	}

	t.Run("zero counters are neutral", func(t *testing.T) {
		t.Parallel()
		zero := UserPreferences{Tags: map[string]int{"ml": 0}}
		if got := PreferenceScore(zero, "", []string{"ml"}); got != 0.5 {
			t.Errorf("PreferenceScore with zero counter = %v, want 0.5", got)
		}
	})
}

func TestDiversityScore(t *testing.T) {
	t.Parallel()

	history := make([]string, MaxLastInteractions)
	for i := range history {
		history[i] = fmt.Sprintf("c-%d", i)
	}
	prefs := UserPreferences{LastInteractions: history}

	t.Run("absent is fully novel", func(t *testing.T) {
		t.Parallel()
		if got := DiversityScore(prefs, "missing"); got != 1.0 {
			t.Errorf("DiversityScore(absent) = %v, want 1.0", got)
		}
	})

	t.Run("present stays within floor and one", func(t *testing.T) {
		t.Parallel()
		for i, id := range history {
			got := DiversityScore(prefs, id)
			if got < 0.1 || got > 1.0 {
				t.Errorf("DiversityScore(index %d) = %v, want in [0.1, 1.0]", i, got)
			}
		}
	})

	tests := []struct {
		index int
		want  float64
	}{
		{0, 1.0},
		{1, 0.98},
		{25, 0.5},
		{45, 0.1},
		{49, 0.1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("index %d", tt.index), func(t *testing.T) {
			t.Parallel()
			got := DiversityScore(prefs, history[tt.index])
			if !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("DiversityScore(index %d) = %v, want %v", tt.index, got, tt.want)
			}
		})
	}

	t.Run("first occurrence wins", func(t *testing.T) {
		t.Parallel()
		dup := UserPreferences{LastInteractions: []string{"a", "b", "a"}}
		if got := DiversityScore(dup, "a"); got != 1.0 {
			t.Errorf("DiversityScore(duplicate) = %v, want 1.0", got)
		}
	})
}

func TestTrendingScore(t *testing.T) {
	t.Parallel()

	t.Run("zero beyond window", func(t *testing.T) {
		t.Parallel()
		for _, h := range []float64{72.01, 73, 100, 1000} {
			for _, n := range []int{0, 10, 1000000} {
				if got := TrendingScore(n, n, hoursAgo(h), testNow); got != 0 {
					t.Errorf("TrendingScore(%d,%d,%vh) = %v, want 0", n, n, h, got)
				}
			}
		}
	})

	tests := []struct {
		name    string
		likes   int
		replies int
		hours   float64
		want    float64
	}{
		{"no engagement", 0, 0, 0, 0},
		{"fresh with engagement", 9, 0, 0, 0.5},
		{"saturates", 1000, 1000, 0, 1},
		{"exactly at window edge", 0, 0, 72, 0},
		{"three hours old", 8, 0, 3, math.Log10(8.0/8.0+1) / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TrendingScore(tt.likes, tt.replies, hoursAgo(tt.hours), testNow)
			if !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("TrendingScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeightsSumToOne(t *testing.T) {
	t.Parallel()

	sum := WeightTimeDecay + WeightEngagement + WeightAffinity + WeightDiversity + WeightTrending
	if !approxEqual(sum, 1.0, 1e-12) {
		t.Errorf("weights sum = %v, want 1.0", sum)
	}

	all := Features{TimeDecay: 1, Engagement: 1, Affinity: 1, Diversity: 1, Trending: 1}
	if !approxEqual(all.Score(), 1.0, 1e-12) {
		t.Errorf("Features{1,1,1,1,1}.Score() = %v, want 1.0", all.Score())
	}
}
