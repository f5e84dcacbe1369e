// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/townsquare/internal/recommend"
)

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status        string                 `json:"status"`
	Version       string                 `json:"version"`
	Uptime        float64                `json:"uptime_seconds"`
	StoreBackend  string                 `json:"store_backend,omitempty"`
	StoreHealthy  bool                   `json:"store_healthy"`
	BreakerState  string                 `json:"breaker_state,omitempty"`
	Scorer        recommend.Stats        `json:"scorer"`
	Tracker       recommend.TrackerStats `json:"tracker"`
	Configuration *recommend.Config      `json:"config"`
}

// HealthLive handles GET /api/v1/health/live. It always succeeds while the
// process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready. It fails with 503 when the
// preference store does not answer a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.pingStore(r.Context()); err != nil {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Preference store not ready", map[string]string{"error": err.Error()})
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}

// Health handles GET /api/v1/health with a status summary. Store failures
// degrade the status but still answer 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:        "healthy",
		Version:       h.version,
		Uptime:        time.Since(h.startTime).Seconds(),
		StoreHealthy:  h.pingStore(r.Context()) == nil,
		Scorer:        h.scorer.GetStats(),
		Tracker:       h.tracker.GetStats(),
		Configuration: h.scorer.GetConfig(),
	}
	if h.health != nil {
		status.StoreBackend = h.health.Backend()
		if br, ok := h.health.(breakerReporter); ok {
			status.BreakerState = br.BreakerState()
		}
	}
	if !status.StoreHealthy {
		status.Status = "degraded"
	}

	NewResponseWriter(w, r).Success(status)
}

func (h *Handler) pingStore(ctx context.Context) error {
	if h.health == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, h.readyTimeout)
	defer cancel()
	return h.health.Ping(ctx)
}
