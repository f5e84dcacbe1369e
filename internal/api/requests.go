// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/townsquare/internal/recommend"
)

// maxBodyBytes caps request bodies. Large enough for max_items records.
const maxBodyBytes = 4 << 20

// RankTopicsRequest is the body of POST /users/{userID}/rank/topics.
type RankTopicsRequest struct {
	Items   []recommend.Topic `json:"items" validate:"dive"`
	Explain bool              `json:"explain"`
}

// RankInsightsRequest is the body of POST /users/{userID}/rank/insights.
type RankInsightsRequest struct {
	Items   []recommend.Insight `json:"items" validate:"dive"`
	Explain bool                `json:"explain"`
}

// InteractionRequest is the body of POST /users/{userID}/interactions.
type InteractionRequest struct {
	ContentID string   `json:"content_id" validate:"identifier"`
	Category  *string  `json:"category,omitempty" validate:"omitempty,max=256"`
	Tags      []string `json:"tags,omitempty" validate:"max=100,dive,max=256"`
}

// userPath carries the path user ID through struct validation.
type userPath struct {
	UserID string `json:"userID" validate:"identifier"`
}

var errEmptyBody = errors.New("request body is required")

// decodeJSON reads a single JSON value from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errEmptyBody
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}
