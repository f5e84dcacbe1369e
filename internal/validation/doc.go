// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

// Package validation wraps go-playground/validator with a shared instance,
// JSON field naming, an "identifier" rule for user and content IDs, and
// conversion of failures into the API's VALIDATION_ERROR body.
//
//	type trackRequest struct {
//	    UserID    string `json:"user_id" validate:"identifier"`
//	    ContentID string `json:"content_id" validate:"identifier"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
