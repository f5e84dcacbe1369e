// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

// Package services adapts the long-running parts of the server to
// suture.Service: the HTTP server, the preference store health monitor and
// the badger value log garbage collector.
package services
