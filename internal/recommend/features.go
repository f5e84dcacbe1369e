// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package recommend

import (
	"math"
	"time"
)

// Feature weights. They sum to exactly 1.0 and are not configurable.
const (
	WeightTimeDecay  = 0.25
	WeightEngagement = 0.25
	WeightAffinity   = 0.20
	WeightDiversity  = 0.15
	WeightTrending   = 0.15
)

const (
	// decayHours is the e-folding time of TimeDecay.
	decayHours = 12.0

	// trendingWindowHours is the age after which content stops trending.
	trendingWindowHours = 72.0

	// trendingExponent dampens the trending velocity by age.
	trendingExponent = 1.5

	// replyWeight is the engagement weight of a reply relative to a like.
	replyWeight = 2

	// diversityFloor is the lowest diversity score for recently seen content.
	diversityFloor = 0.1

	// neutralAffinity is returned when no preference counter matches.
	neutralAffinity = 0.5
)

// hoursSince returns the non-negative age of createdAt at now, in hours.
func hoursSince(createdAt, now time.Time) float64 {
	h := now.Sub(createdAt).Hours()
	if h < 0 {
		return 0
	}
	return h
}

// TimeDecay returns exp(-hours/12): 1.0 at creation, ~0.5 at 6h, ~0.135 at 24h.
func TimeDecay(createdAt, now time.Time) float64 {
	return math.Exp(-hoursSince(createdAt, now) / decayHours)
}

// EngagementScore maps likes, replies and views to [0, 1].
// Replies count twice; views below one are floored to one.
func EngagementScore(likes, replies, views int) float64 {
	if likes < 0 {
		likes = 0
	}
	if replies < 0 {
		replies = 0
	}
	if views < 1 {
		views = 1
	}

	rate := float64(likes+replies*replyWeight) / float64(views)
	return math.Min(1, math.Log10(rate*100+1)/2)
}

// PreferenceScore measures how well a category and tag set match the user's
// interaction counters. Returns 0.5 when nothing matches.
func PreferenceScore(prefs UserPreferences, category string, tags []string) float64 {
	score := 0
	totalPrefs := 0

	if category != "" {
		if n, ok := prefs.Categories[category]; ok {
			score += n
			totalPrefs += n
		}
	}

	for _, tag := range tags {
		if n, ok := prefs.Tags[tag]; ok {
			score += n
			totalPrefs += n
		}
	}

	if totalPrefs == 0 {
		return neutralAffinity
	}

	return math.Min(1, float64(score)/float64(totalPrefs*2))
}

// DiversityScore penalizes content the user interacted with recently.
// Absent content scores 1.0; the most recent entry scores 1.0 - 0/50 and
// the floor is 0.1.
func DiversityScore(prefs UserPreferences, contentID string) float64 {
	for i, id := range prefs.LastInteractions {
		if id == contentID {
			return math.Max(diversityFloor, 1-float64(i)/MaxLastInteractions)
		}
	}
	return 1.0
}

// TrendingScore rewards engagement gathered quickly. Content older than
// 72 hours never trends.
func TrendingScore(likes, replies int, createdAt, now time.Time) float64 {
	hours := hoursSince(createdAt, now)
	if hours > trendingWindowHours {
		return 0
	}
	if likes < 0 {
		likes = 0
	}
	if replies < 0 {
		replies = 0
	}

	raw := float64(likes+replies*replyWeight) / math.Pow(hours+1, trendingExponent)
	return math.Min(1, math.Log10(raw+1)/2)
}

// featureInput is the variant-independent view of a content item.
type featureInput struct {
	id        string
	createdAt time.Time
	likes     int
	replies   int
	views     int
	category  string
	tags      []string
}

// topicInput maps a Topic onto calculator inputs. Topics have no likes and
// their category does not participate in scoring.
func topicInput(t *Topic) featureInput {
	return featureInput{
		id:        t.ID,
		createdAt: t.CreatedAt,
		replies:   intOrZero(t.RepliesCount),
		views:     viewsOrOne(t.Views),
		tags:      t.Tags,
	}
}

// insightInput maps an Insight onto calculator inputs. Insights have no
// replies and their tags do not participate in scoring.
func insightInput(in *Insight) featureInput {
	return featureInput{
		id:        in.ID,
		createdAt: in.CreatedAt,
		likes:     intOrZero(in.LikesCount),
		views:     viewsOrOne(in.ViewsCount),
		category:  stringOrEmpty(in.Category),
	}
}

// computeFeatures applies all five calculators to one item.
func computeFeatures(in featureInput, prefs UserPreferences, now time.Time) Features {
	return Features{
		TimeDecay:  TimeDecay(in.createdAt, now),
		Engagement: EngagementScore(in.likes, in.replies, in.views),
		Affinity:   PreferenceScore(prefs, in.category, in.tags),
		Diversity:  DiversityScore(prefs, in.id),
		Trending:   TrendingScore(in.likes, in.replies, in.createdAt, now),
	}
}
