// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package validation

import (
	"strings"
	"testing"
	"time"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

type item struct {
	ID        string    `json:"id" validate:"identifier"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
	Views     *int      `json:"views,omitempty" validate:"omitempty,gte=0"`
}

type batch struct {
	UserID string `json:"user_id" validate:"identifier"`
	Items  []item `json:"items" validate:"max=3,dive"`
}

func intPtr(v int) *int { return &v }

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tests := []struct {
		name      string
		input     batch
		wantField string
		wantTag   string
	}{
		{
			name:  "valid",
			input: batch{UserID: "u1", Items: []item{{ID: "a", CreatedAt: now, Views: intPtr(0)}}},
		},
		{
			name:  "empty batch",
			input: batch{UserID: "u1"},
		},
		{
			name:      "blank user",
			input:     batch{UserID: "   "},
			wantField: "user_id",
			wantTag:   "identifier",
		},
		{
			name:      "control character in user",
			input:     batch{UserID: "u\x001"},
			wantField: "user_id",
			wantTag:   "identifier",
		},
		{
			name:      "overlong user",
			input:     batch{UserID: strings.Repeat("x", MaxIdentifierLength+1)},
			wantField: "user_id",
			wantTag:   "identifier",
		},
		{
			name:      "missing created_at",
			input:     batch{UserID: "u1", Items: []item{{ID: "a"}}},
			wantField: "items[0].created_at",
			wantTag:   "required",
		},
		{
			name:      "negative views",
			input:     batch{UserID: "u1", Items: []item{{ID: "a", CreatedAt: now}, {ID: "b", CreatedAt: now, Views: intPtr(-1)}}},
			wantField: "items[1].views",
			wantTag:   "gte",
		},
		{
			name:      "too many items",
			input:     batch{UserID: "u1", Items: make([]item, 4)},
			wantField: "items",
			wantTag:   "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.input)
			if tt.wantTag == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			for _, e := range verr.Errors() {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					return
				}
			}
			t.Errorf("expected error on %s with tag %s, got: %v", tt.wantField, tt.wantTag, verr)
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	t.Run("single", func(t *testing.T) {
		t.Parallel()
		verr := ValidateStruct(&batch{UserID: ""})
		if verr == nil {
			t.Fatal("expected validation error")
		}
		apiErr := verr.ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("Code = %s, want VALIDATION_ERROR", apiErr.Code)
		}
		if apiErr.Details["field"] != "user_id" {
			t.Errorf("Details[field] = %v, want user_id", apiErr.Details["field"])
		}
		if !strings.Contains(apiErr.Message, "user_id") {
			t.Errorf("Message %q should name the field", apiErr.Message)
		}
	})

	t.Run("multiple", func(t *testing.T) {
		t.Parallel()
		verr := ValidateStruct(&batch{UserID: "", Items: []item{{ID: ""}}})
		if verr == nil {
			t.Fatal("expected validation error")
		}
		apiErr := verr.ToAPIError()
		fields, ok := apiErr.Details["fields"].([]map[string]any)
		if !ok || len(fields) < 2 {
			t.Fatalf("Details[fields] = %v, want at least 2 entries", apiErr.Details["fields"])
		}
	})
}
