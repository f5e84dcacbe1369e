// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

// Package logging provides the process-wide zerolog logger.
//
// JSON output is the default; console output is meant for development.
// Request and user IDs travel in the context and are attached by Ctx.
// SlogHandler bridges libraries that expect *slog.Logger (the supervisor
// event hook) onto the same zerolog output.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console", Timestamp: true})
//	logging.Info().Str("addr", addr).Msg("server listening")
//	logging.Ctx(ctx).Warn().Err(err).Msg("preference load fell back to default")
//
// Always terminate an event with Msg or Send; otherwise nothing is written.
package logging
