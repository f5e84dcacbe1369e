// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/townsquare/internal/recommend"
)

func TestNewRedisClient_NoAddrs(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), RedisConfig{}); err == nil {
		t.Error("expected error without addresses")
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(context.Background(), RedisConfig{
		Addrs:       []string{"127.0.0.1:1"},
		DialTimeout: 200 * time.Millisecond,
	})
	if err == nil {
		t.Error("expected ping error for unreachable server")
	}
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "ts:", BreakerConfig{}, zerolog.Nop())
	if err := store.Save(context.Background(), "u1", recommend.NewUserPreferences()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !mr.Exists("ts:community_preferences:u1") {
		t.Errorf("keys = %v, want ts:community_preferences:u1", mr.Keys())
	}
}

func TestRedisStore_BreakerOpensAndFallsBack(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{
		Addr:        mr.Addr(),
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	store := NewRedisStore(client, "", BreakerConfig{
		FailureThreshold: 2,
		Timeout:          time.Hour,
		MaxRequests:      1,
	}, zerolog.Nop())
	ctx := context.Background()

	if err := store.Save(ctx, "u1", recommend.UserPreferences{Tags: map[string]int{"go": 1}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	mr.Close()

	for i := 0; i < 2; i++ {
		p := store.Load(ctx, "u1")
		if len(p.Tags) != 0 {
			t.Fatalf("Load() with server down = %+v, want default", p)
		}
	}

	if got := store.BreakerState(); got != "open" {
		t.Fatalf("BreakerState() = %q, want open", got)
	}

	// Rejected without touching the network.
	if err := store.Save(ctx, "u1", recommend.NewUserPreferences()); err == nil {
		t.Error("Save() with open breaker succeeded")
	}
	if p := store.Load(ctx, "u1"); len(p.Tags) != 0 {
		t.Errorf("Load() with open breaker = %+v, want default", p)
	}
	if err := store.Ping(ctx); err == nil {
		t.Error("Ping() with server down succeeded")
	}
}
