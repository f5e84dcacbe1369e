// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Config contains the tunable limits of the scorer and tracker.
//
// Feature weights are package constants, see WeightTimeDecay.
type Config struct {
	// MaxItems is the largest batch a single ranking call accepts.
	MaxItems int `json:"max_items" koanf:"max_items"`

	// StoreTimeout bounds each preference store call made on behalf of
	// a ranking or tracking request. Zero disables the bound.
	StoreTimeout time.Duration `json:"store_timeout" koanf:"store_timeout"`
}

// DefaultConfig returns the default scorer configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxItems:     500,
		StoreTimeout: 2 * time.Second,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxItems < 1 {
		return fmt.Errorf("max_items must be positive, got %d", c.MaxItems)
	}
	if c.StoreTimeout < 0 {
		return fmt.Errorf("store_timeout must be non-negative, got %v", c.StoreTimeout)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type alias Config
	return json.Marshal(&struct {
		*alias
		StoreTimeout string `json:"store_timeout"`
	}{
		alias:        (*alias)(c),
		StoreTimeout: c.StoreTimeout.String(),
	})
}

// UnmarshalJSON accepts the duration strings written by MarshalJSON.
func (c *Config) UnmarshalJSON(data []byte) error {
	type alias Config
	aux := &struct {
		*alias
		StoreTimeout string `json:"store_timeout"`
	}{
		alias: (*alias)(c),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if aux.StoreTimeout == "" {
		return nil
	}
	d, err := time.ParseDuration(aux.StoreTimeout)
	if err != nil {
		return fmt.Errorf("store_timeout: %w", err)
	}
	c.StoreTimeout = d
	return nil
}
