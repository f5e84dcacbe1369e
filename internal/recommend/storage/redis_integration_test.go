// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

//go:build integration

package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/townsquare/internal/recommend"
	"github.com/tomtom215/townsquare/internal/testinfra"
)

func TestRedisStore_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	redis, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("NewRedisContainer() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, redis)

	h, err := Open(ctx, Config{
		Backend: BackendRedis,
		Redis:   RedisConfig{Addrs: []string{redis.Addr}, KeyPrefix: "it:"},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer h.Close()

	tracker, err := recommend.NewTracker(h.Store, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}

	// Two trackers share the server the way two replicas would.
	other, err := recommend.NewTracker(h.Store, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}

	const perTracker = 20
	var wg sync.WaitGroup
	for _, tr := range []*recommend.Tracker{tracker, other} {
		wg.Add(1)
		go func(tr *recommend.Tracker) {
			defer wg.Done()
			for i := 0; i < perTracker; i++ {
				_ = tr.TrackInteraction(ctx, "u1", fmt.Sprintf("c-%d", i), nil, []string{"go"})
			}
		}(tr)
	}
	wg.Wait()

	p := h.Store.Load(ctx, "u1")
	tracked := tracker.GetStats().TrackCount + other.GetStats().TrackCount
	if int64(p.Tags["go"]) != tracked {
		t.Errorf("tags[go] = %d, want %d (one per successful interaction)", p.Tags["go"], tracked)
	}

	if err := h.Store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if p := h.Store.Load(ctx, "u1"); len(p.Tags) != 0 {
		t.Errorf("Load() after Delete = %+v", p)
	}
}
