// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/townsquare/internal/logging"
	"github.com/tomtom215/townsquare/internal/metrics"
	"github.com/tomtom215/townsquare/internal/recommend"
	"github.com/tomtom215/townsquare/internal/validation"
)

// pathUserID extracts and validates {userID}. It writes the error response
// and returns false when the ID is unusable.
func pathUserID(rw *ResponseWriter, r *http.Request) (string, bool) {
	p := userPath{UserID: chi.URLParam(r, "userID")}
	if verr := validation.ValidateStruct(&p); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return "", false
	}
	return p.UserID, true
}

// decodeAndValidate decodes the body into dst and validates it, writing the
// error response on failure.
func decodeAndValidate(rw *ResponseWriter, w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		rw.BadRequest(ErrCodeInvalidJSON, err.Error())
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// checkBatch enforces the configured batch limit.
func (h *Handler) checkBatch(rw *ResponseWriter, n int) bool {
	if err := h.scorer.CheckBatch(n); err != nil {
		if errors.Is(err, recommend.ErrTooManyItems) {
			metrics.RankRejected.Inc()
			rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeTooManyItems, err.Error(),
				map[string]int{"max_items": h.scorer.GetConfig().MaxItems, "items": n})
			return false
		}
		rw.InternalError("Failed to check batch")
		return false
	}
	return true
}

// RankTopics handles POST /api/v1/users/{userID}/rank/topics.
func (h *Handler) RankTopics(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := pathUserID(rw, r)
	if !ok {
		return
	}

	var req RankTopicsRequest
	if !decodeAndValidate(rw, w, r, &req) || !h.checkBatch(rw, len(req.Items)) {
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), userID)
	start := time.Now()

	if req.Explain {
		out := h.scorer.ExplainTopics(ctx, userID, req.Items)
		metrics.RecordRank(recommend.KindTopic.String(), len(out), time.Since(start))
		rw.SuccessList(out, len(out))
		return
	}

	out := h.scorer.ScoreTopics(ctx, userID, req.Items)
	metrics.RecordRank(recommend.KindTopic.String(), len(out), time.Since(start))
	rw.SuccessList(out, len(out))
}

// RankInsights handles POST /api/v1/users/{userID}/rank/insights.
func (h *Handler) RankInsights(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := pathUserID(rw, r)
	if !ok {
		return
	}

	var req RankInsightsRequest
	if !decodeAndValidate(rw, w, r, &req) || !h.checkBatch(rw, len(req.Items)) {
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), userID)
	start := time.Now()

	if req.Explain {
		out := h.scorer.ExplainInsights(ctx, userID, req.Items)
		metrics.RecordRank(recommend.KindInsight.String(), len(out), time.Since(start))
		rw.SuccessList(out, len(out))
		return
	}

	out := h.scorer.ScoreInsights(ctx, userID, req.Items)
	metrics.RecordRank(recommend.KindInsight.String(), len(out), time.Since(start))
	rw.SuccessList(out, len(out))
}

// TrackInteraction handles POST /api/v1/users/{userID}/interactions.
func (h *Handler) TrackInteraction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := pathUserID(rw, r)
	if !ok {
		return
	}

	var req InteractionRequest
	if !decodeAndValidate(rw, w, r, &req) {
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), userID)
	err := h.tracker.TrackInteraction(ctx, userID, req.ContentID, req.Category, req.Tags)
	metrics.RecordInteraction(err)
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.NoContent()
}

// GetPreferences handles GET /api/v1/users/{userID}/preferences.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := pathUserID(rw, r)
	if !ok {
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), userID)
	rw.Success(h.scorer.Preferences(ctx, userID))
}

// ResetPreferences handles DELETE /api/v1/users/{userID}/preferences.
func (h *Handler) ResetPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := pathUserID(rw, r)
	if !ok {
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), userID)
	if err := h.tracker.Reset(ctx, userID); err != nil {
		rw.StoreError(err)
		return
	}
	metrics.PreferenceResets.Inc()
	rw.NoContent()
}
