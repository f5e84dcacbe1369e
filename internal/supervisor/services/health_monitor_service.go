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

// Pinger is the part of the preference store the health monitor needs.
type Pinger interface {
	Ping(ctx context.Context) error
	Backend() string
}

// DefaultHealthInterval is the default time between store pings.
const DefaultHealthInterval = 15 * time.Second

// HealthMonitorService pings the preference store on an interval and
// publishes the result as the townsquare_store_up gauge. It also keeps
// app_uptime_seconds current.
//
// Only transitions are logged, so a store that stays down produces one
// warning, not one per tick.
type HealthMonitorService struct {
	store    Pinger
	interval time.Duration
	timeout  time.Duration
	started  time.Time
	logger   zerolog.Logger
	healthy  *bool
}

// NewHealthMonitorService creates a monitor for store. A non-positive
// interval uses DefaultHealthInterval.
func NewHealthMonitorService(store Pinger, interval time.Duration, logger zerolog.Logger) *HealthMonitorService {
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	timeout := interval / 2
	if timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	return &HealthMonitorService{
		store:    store,
		interval: interval,
		timeout:  timeout,
		started:  time.Now(),
		logger:   logger.With().Str("service", "store-health-monitor").Str("backend", store.Backend()).Logger(),
	}
}

// Serve implements suture.Service.
func (s *HealthMonitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

// check pings once and records the outcome. Returns whether the store is up.
func (s *HealthMonitorService) check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.store.Ping(pingCtx)
	up := err == nil

	metrics.RecordStoreHealth(s.store.Backend(), up)
	metrics.AppUptime.Set(time.Since(s.started).Seconds())

	switch {
	case s.healthy == nil && up:
		s.logger.Info().Msg("Preference store reachable")
	case !up && (s.healthy == nil || *s.healthy):
		s.logger.Warn().Err(err).Msg("Preference store unreachable")
	case up && !*s.healthy:
		s.logger.Info().Msg("Preference store recovered")
	}
	s.healthy = &up
	return up
}

func (s *HealthMonitorService) String() string {
	return "store-health-monitor"
}
