// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/townsquare/internal/recommend"
)

// HealthChecker is the part of the preference store the health endpoints use.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Backend() string
}

// breakerReporter is implemented by stores guarded by a circuit breaker.
type breakerReporter interface {
	BreakerState() string
}

// Handler serves the recommendation endpoints.
type Handler struct {
	scorer    *recommend.Scorer
	tracker   *recommend.Tracker
	health    HealthChecker
	version   string
	startTime time.Time

	readyTimeout time.Duration
}

// NewHandler creates a handler. health may be nil, in which case readiness
// only reflects that the process is serving.
func NewHandler(scorer *recommend.Scorer, tracker *recommend.Tracker, health HealthChecker, version string) (*Handler, error) {
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}
	if tracker == nil {
		return nil, errors.New("tracker is required")
	}
	return &Handler{
		scorer:       scorer,
		tracker:      tracker,
		health:       health,
		version:      version,
		startTime:    time.Now(),
		readyTimeout: 2 * time.Second,
	}, nil
}
