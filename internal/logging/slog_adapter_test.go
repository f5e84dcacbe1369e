// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	return entry
}

func TestSlogHandler_Attributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(zerolog.New(&buf)))

	logger.Info("service restarted",
		"service", "http",
		"attempt", 3,
		"ok", true,
		"backoff", 2*time.Second,
		"err", errors.New("bind failed"),
	)

	entry := decodeLine(t, &buf)
	if entry["message"] != "service restarted" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["service"] != "http" {
		t.Errorf("service = %v", entry["service"])
	}
	if entry["attempt"] != float64(3) {
		t.Errorf("attempt = %v", entry["attempt"])
	}
	if entry["ok"] != true {
		t.Errorf("ok = %v", entry["ok"])
	}
	if entry["err"] != "bind failed" {
		t.Errorf("err = %v", entry["err"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestSlogHandler_GroupsAndWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(zerolog.New(&buf))).
		With("supervisor", "townsquare").
		WithGroup("event")

	logger.Warn("backoff", "service", "data", slog.Group("detail", "failures", 5))

	entry := decodeLine(t, &buf)
	if entry["supervisor"] != "townsquare" {
		t.Errorf("supervisor = %v", entry["supervisor"])
	}
	if entry["event.service"] != "data" {
		t.Errorf("event.service = %v (entry %v)", entry["event.service"], entry)
	}
	if entry["event.detail.failures"] != float64(5) {
		t.Errorf("event.detail.failures = %v", entry["event.detail.failures"])
	}
	if entry["level"] != "warn" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	h := NewSlogHandler(zerolog.New(nil).Level(zerolog.WarnLevel))
	ctx := context.Background()

	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("info enabled on warn logger")
	}
	if !h.Enabled(ctx, slog.LevelError) {
		t.Error("error disabled on warn logger")
	}
}

func TestSlogHandler_WithEmptyGroup(t *testing.T) {
	h := NewSlogHandler(zerolog.Nop())
	if got := h.WithGroup(""); got != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}
