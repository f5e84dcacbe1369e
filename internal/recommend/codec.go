// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package recommend

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Sentinel errors.
var (
	// ErrCorruptPreferences indicates stored preference bytes could not be decoded.
	ErrCorruptPreferences = errors.New("corrupt preference record")

	// ErrEmptyUserID indicates a missing user identifier.
	ErrEmptyUserID = errors.New("user id is required")

	// ErrEmptyContentID indicates a missing content identifier.
	ErrEmptyContentID = errors.New("content id is required")

	// ErrTooManyItems indicates a ranking batch above the configured limit.
	ErrTooManyItems = errors.New("too many items to rank")
)

// PreferencesKeyPrefix is the key-value key under which preferences are stored.
const PreferencesKeyPrefix = "community_preferences"

// PreferencesKey returns the storage key for a user's preferences.
func PreferencesKey(userID string) string {
	return PreferencesKeyPrefix + ":" + userID
}

// EncodePreferences serializes preferences to JSON.
func EncodePreferences(prefs UserPreferences) ([]byte, error) {
	prefs.normalize()
	data, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("marshal preferences: %w", err)
	}
	return data, nil
}

// DecodePreferences parses a stored preference record.
//
// The error is always ErrCorruptPreferences-wrapped so that stores can
// collapse it to the default record.
func DecodePreferences(data []byte) (UserPreferences, error) {
	if len(data) == 0 {
		return NewUserPreferences(), fmt.Errorf("%w: empty value", ErrCorruptPreferences)
	}

	var prefs UserPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return NewUserPreferences(), fmt.Errorf("%w: %w", ErrCorruptPreferences, err)
	}

	prefs.normalize()
	if len(prefs.LastInteractions) > MaxLastInteractions {
		prefs.LastInteractions = prefs.LastInteractions[:MaxLastInteractions]
	}
	return prefs, nil
}
