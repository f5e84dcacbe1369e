// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package recommend

import (
	"context"
	"time"
)

// MaxLastInteractions is the length cap of UserPreferences.LastInteractions.
const MaxLastInteractions = 50

// ContentKind identifies the content variant being ranked.
type ContentKind int

const (
	// KindTopic is a community discussion topic.
	KindTopic ContentKind = iota
	// KindInsight is a short published insight.
	KindInsight
)

// String returns a human-readable name for the content kind.
func (k ContentKind) String() string {
	switch k {
	case KindTopic:
		return "topic"
	case KindInsight:
		return "insight"
	default:
		return "unknown"
	}
}

// Topic is a community discussion thread.
//
// Counters are optional; an absent counter is treated as zero and absent
// views as one.
type Topic struct {
	// ID is the opaque, stable content identifier.
	ID string `json:"id" validate:"required"`

	// CreatedAt is when the topic was created. Immutable once set.
	CreatedAt time.Time `json:"created_at" validate:"required"`

	// Category is carried through but not used when scoring topics.
	Category *string `json:"category,omitempty"`

	// Tags are matched against the user's tag counters.
	Tags []string `json:"tags,omitempty"`

	// RepliesCount is the number of replies.
	RepliesCount *int `json:"replies_count,omitempty" validate:"omitempty,gte=0"`

	// Views is the number of views.
	Views *int `json:"views,omitempty" validate:"omitempty,gte=0"`

	// RecommendationScore is attached by the Scorer. Always set on output.
	RecommendationScore *float64 `json:"recommendationScore,omitempty"`
}

// Insight is a short piece of published content.
type Insight struct {
	// ID is the opaque, stable content identifier.
	ID string `json:"id" validate:"required"`

	// CreatedAt is when the insight was created. Immutable once set.
	CreatedAt time.Time `json:"created_at" validate:"required"`

	// Category is matched against the user's category counters.
	Category *string `json:"category,omitempty"`

	// Tags are carried through but not used when scoring insights.
	Tags []string `json:"tags,omitempty"`

	// LikesCount is the number of likes.
	LikesCount *int `json:"likes_count,omitempty" validate:"omitempty,gte=0"`

	// ViewsCount is the number of views.
	ViewsCount *int `json:"views_count,omitempty" validate:"omitempty,gte=0"`

	// RecommendationScore is attached by the Scorer. Always set on output.
	RecommendationScore *float64 `json:"recommendationScore,omitempty"`
}

// UserPreferences is the per-user interaction history used for personalization.
type UserPreferences struct {
	// Categories maps a category name to its cumulative interaction count.
	Categories map[string]int `json:"categories"`

	// Tags maps a tag name to its cumulative interaction count.
	Tags map[string]int `json:"tags"`

	// LastInteractions holds content IDs, most recent first.
	// Capped at MaxLastInteractions entries.
	LastInteractions []string `json:"lastInteractions"`
}

// NewUserPreferences returns the empty default preference record.
func NewUserPreferences() UserPreferences {
	return UserPreferences{
		Categories:       make(map[string]int),
		Tags:             make(map[string]int),
		LastInteractions: []string{},
	}
}

// Clone returns a deep copy of the preferences.
func (p UserPreferences) Clone() UserPreferences {
	out := UserPreferences{
		Categories:       make(map[string]int, len(p.Categories)),
		Tags:             make(map[string]int, len(p.Tags)),
		LastInteractions: make([]string, len(p.LastInteractions)),
	}
	for k, v := range p.Categories {
		out.Categories[k] = v
	}
	for k, v := range p.Tags {
		out.Tags[k] = v
	}
	copy(out.LastInteractions, p.LastInteractions)
	return out
}

// normalize fills nil maps and slices so callers can mutate freely.
func (p *UserPreferences) normalize() {
	if p.Categories == nil {
		p.Categories = make(map[string]int)
	}
	if p.Tags == nil {
		p.Tags = make(map[string]int)
	}
	if p.LastInteractions == nil {
		p.LastInteractions = []string{}
	}
}

// Features holds the five normalized feature values computed for one item.
type Features struct {
	TimeDecay  float64 `json:"time_decay"`
	Engagement float64 `json:"engagement"`
	Affinity   float64 `json:"affinity"`
	Diversity  float64 `json:"diversity"`
	Trending   float64 `json:"trending"`
}

// Score returns the weighted sum of the features.
func (f Features) Score() float64 {
	return f.TimeDecay*WeightTimeDecay +
		f.Engagement*WeightEngagement +
		f.Affinity*WeightAffinity +
		f.Diversity*WeightDiversity +
		f.Trending*WeightTrending
}

// Explained pairs a scored item with the features behind its score.
type Explained[T any] struct {
	Item     T        `json:"item"`
	Features Features `json:"features"`
}

// PreferenceStore persists one UserPreferences record per user.
//
// Load never fails: a missing record, undecodable bytes, or a backend error
// all yield NewUserPreferences().
type PreferenceStore interface {
	// Load returns the stored preferences for userID, or the empty default.
	Load(ctx context.Context, userID string) UserPreferences

	// Save overwrites the stored preferences for userID.
	Save(ctx context.Context, userID string, prefs UserPreferences) error

	// Delete removes the stored preferences for userID.
	Delete(ctx context.Context, userID string) error
}

// PreferenceUpdater is implemented by stores that can apply a
// read-modify-write atomically.
type PreferenceUpdater interface {
	Update(ctx context.Context, userID string, fn func(*UserPreferences)) error
}

// intOrZero maps an absent counter to zero and clamps negatives.
func intOrZero(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

// viewsOrOne maps absent or zero views to one so it can be used as a divisor.
func viewsOrOne(v *int) int {
	if v == nil || *v < 1 {
		return 1
	}
	return *v
}

// stringOrEmpty dereferences an optional string.
func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
