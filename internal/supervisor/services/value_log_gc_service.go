// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/townsquare/internal/metrics"
)

// GarbageCollector is implemented by stores with a compactable value log.
// CollectGarbage reports whether a file was rewritten.
type GarbageCollector interface {
	CollectGarbage(discardRatio float64) (bool, error)
}

// Value log GC defaults.
const (
	DefaultGCInterval     = 10 * time.Minute
	DefaultGCDiscardRatio = 0.5

	// maxGCRewritesPerRun bounds one run. Badger rewrites at most one file
	// per call.
	maxGCRewritesPerRun = 10
)

// ValueLogGCService periodically reclaims space from the badger value log.
// Preference records are rewritten on every interaction, so stale versions
// accumulate quickly.
type ValueLogGCService struct {
	gc           GarbageCollector
	interval     time.Duration
	discardRatio float64
	logger       zerolog.Logger
}

// NewValueLogGCService creates a GC service. Zero values take the defaults.
func NewValueLogGCService(gc GarbageCollector, interval time.Duration, discardRatio float64, logger zerolog.Logger) *ValueLogGCService {
	if interval <= 0 {
		interval = DefaultGCInterval
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = DefaultGCDiscardRatio
	}
	return &ValueLogGCService{
		gc:           gc,
		interval:     interval,
		discardRatio: discardRatio,
		logger:       logger.With().Str("service", "value-log-gc").Logger(),
	}
}

// Serve implements suture.Service. A GC error is returned so the supervisor
// restarts the service with backoff.
func (s *ValueLogGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.runOnce(ctx); err != nil {
				return err
			}
		}
	}
}

// runOnce calls CollectGarbage until nothing is rewritten. Returns the
// number of rewritten files.
func (s *ValueLogGCService) runOnce(ctx context.Context) (int, error) {
	start := time.Now()
	rewrites := 0
	for rewrites < maxGCRewritesPerRun {
		if ctx.Err() != nil {
			break
		}
		rewritten, err := s.gc.CollectGarbage(s.discardRatio)
		if err != nil {
			metrics.StoreGCRuns.WithLabelValues("error").Inc()
			s.logger.Error().Err(err).Int("rewrites", rewrites).Msg("Value log GC failed")
			return rewrites, err
		}
		if !rewritten {
			break
		}
		rewrites++
	}

	if rewrites == 0 {
		metrics.StoreGCRuns.WithLabelValues("noop").Inc()
		return 0, nil
	}
	metrics.StoreGCRuns.WithLabelValues("rewritten").Inc()
	s.logger.Info().
		Int("rewrites", rewrites).
		Dur("duration", time.Since(start)).
		Msg("Value log GC reclaimed space")
	return rewrites, nil
}

func (s *ValueLogGCService) String() string {
	return "value-log-gc"
}
