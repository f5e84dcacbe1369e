// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/townsquare/internal/recommend"
)

// rawWriter seeds a backend with bytes that bypass the codec.
type rawWriter func(t *testing.T, userID string, data []byte)

type backendFixture struct {
	name  string
	store Store
	raw   rawWriter
}

func newMemoryFixture(t *testing.T) backendFixture {
	t.Helper()
	s := NewMemoryStore(zerolog.Nop())
	return backendFixture{
		name:  BackendMemory,
		store: s,
		raw: func(t *testing.T, userID string, data []byte) {
			s.PutRaw(userID, data)
		},
	}
}

func newBadgerFixture(t *testing.T) backendFixture {
	t.Helper()
	db, err := OpenBadger(BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return backendFixture{
		name:  BackendBadger,
		store: NewBadgerStore(db, zerolog.Nop()),
		raw: func(t *testing.T, userID string, data []byte) {
			t.Helper()
			err := db.Update(func(txn *badger.Txn) error {
				return txn.Set([]byte(recommend.PreferencesKey(userID)), data)
			})
			if err != nil {
				t.Fatalf("seed badger: %v", err)
			}
		},
	}
}

func newRedisFixture(t *testing.T) (backendFixture, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), RedisConfig{Addrs: []string{mr.Addr()}})
	if err != nil {
		t.Fatalf("NewRedisClient() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return backendFixture{
		name:  BackendRedis,
		store: NewRedisStore(client, "test:", DefaultBreakerConfig(), zerolog.Nop()),
		raw: func(t *testing.T, userID string, data []byte) {
			t.Helper()
			if err := mr.Set("test:"+recommend.PreferencesKey(userID), string(data)); err != nil {
				t.Fatalf("seed redis: %v", err)
			}
		},
	}, mr
}

func allFixtures(t *testing.T) []backendFixture {
	t.Helper()
	redis, _ := newRedisFixture(t)
	return []backendFixture{newMemoryFixture(t), newBadgerFixture(t), redis}
}

func TestStore_MissingUserReturnsDefault(t *testing.T) {
	for _, f := range allFixtures(t) {
		t.Run(f.name, func(t *testing.T) {
			p := f.store.Load(context.Background(), "nobody")
			if p.Categories == nil || p.Tags == nil || p.LastInteractions == nil {
				t.Fatalf("Load() = %+v, want non-nil empty fields", p)
			}
			if len(p.Categories)+len(p.Tags)+len(p.LastInteractions) != 0 {
				t.Errorf("Load() = %+v, want empty", p)
			}
		})
	}
}

func TestStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()

	for _, f := range allFixtures(t) {
		t.Run(f.name, func(t *testing.T) {
			want := recommend.UserPreferences{
				Categories:       map[string]int{"ai-tools": 2},
				Tags:             map[string]int{"ml": 3, "nlp": 1},
				LastInteractions: []string{"b", "a"},
			}
			if err := f.store.Save(ctx, "u1", want); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			got := f.store.Load(ctx, "u1")
			if got.Categories["ai-tools"] != 2 || got.Tags["ml"] != 3 || got.Tags["nlp"] != 1 {
				t.Errorf("counters = %v %v", got.Categories, got.Tags)
			}
			if fmt.Sprint(got.LastInteractions) != "[b a]" {
				t.Errorf("lastInteractions = %v, want [b a]", got.LastInteractions)
			}

			if other := f.store.Load(ctx, "u2"); len(other.Tags) != 0 {
				t.Errorf("u2 sees u1's data: %+v", other)
			}

			if err := f.store.Delete(ctx, "u1"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if after := f.store.Load(ctx, "u1"); len(after.Tags) != 0 {
				t.Errorf("Load() after Delete = %+v, want empty", after)
			}
			if err := f.store.Delete(ctx, "u1"); err != nil {
				t.Errorf("second Delete() error = %v", err)
			}
		})
	}
}

func TestStore_CorruptValueFallsBack(t *testing.T) {
	ctx := context.Background()

	for _, f := range allFixtures(t) {
		t.Run(f.name, func(t *testing.T) {
			f.raw(t, "u1", []byte("{not json"))

			p := f.store.Load(ctx, "u1")
			if len(p.Categories)+len(p.Tags)+len(p.LastInteractions) != 0 {
				t.Errorf("Load() = %+v, want empty default", p)
			}

			// An update over a corrupt record starts from the default.
			err := f.store.Update(ctx, "u1", func(p *recommend.UserPreferences) {
				recommend.ApplyInteraction(p, "x", "cat", nil)
			})
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			p = f.store.Load(ctx, "u1")
			if p.Categories["cat"] != 1 || len(p.LastInteractions) != 1 {
				t.Errorf("Load() after Update = %+v", p)
			}
		})
	}
}

func TestStore_ReadsForeignRecord(t *testing.T) {
	ctx := context.Background()
	record := []byte(`{"categories":{"design":4},"tags":{},"lastInteractions":["t-9"]}`)

	for _, f := range allFixtures(t) {
		t.Run(f.name, func(t *testing.T) {
			f.raw(t, "u1", record)
			p := f.store.Load(ctx, "u1")
			if p.Categories["design"] != 4 {
				t.Errorf("categories = %v, want design=4", p.Categories)
			}
			if recommend.DiversityScore(p, "t-9") != 1.0 {
				t.Errorf("DiversityScore(t-9) = %v, want 1.0", recommend.DiversityScore(p, "t-9"))
			}
		})
	}
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	const writers = 25

	for _, f := range allFixtures(t) {
		t.Run(f.name, func(t *testing.T) {
			var wg sync.WaitGroup
			errs := make(chan error, writers)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs <- f.store.Update(ctx, "u1", func(p *recommend.UserPreferences) {
						recommend.ApplyInteraction(p, fmt.Sprintf("c-%d", i), "", []string{"go"})
					})
				}(i)
			}
			wg.Wait()
			close(errs)

			failed := 0
			for err := range errs {
				if err != nil {
					failed++
				}
			}

			p := f.store.Load(ctx, "u1")
			if p.Tags["go"]+failed != writers {
				t.Errorf("tags[go] = %d with %d failures, want %d total (lost update)", p.Tags["go"], failed, writers)
			}
			if len(p.LastInteractions) != p.Tags["go"] {
				t.Errorf("history length %d != counter %d", len(p.LastInteractions), p.Tags["go"])
			}
		})
	}
}

func TestStore_TrackerIntegration(t *testing.T) {
	ctx := context.Background()

	for _, f := range allFixtures(t) {
		t.Run(f.name, func(t *testing.T) {
			tracker, err := recommend.NewTracker(f.store, nil, zerolog.Nop())
			if err != nil {
				t.Fatalf("NewTracker() error = %v", err)
			}
			for i := 0; i < 60; i++ {
				if err := tracker.TrackInteraction(ctx, "u1", fmt.Sprintf("c-%d", i), nil, nil); err != nil {
					t.Fatalf("TrackInteraction() error = %v", err)
				}
			}

			p := f.store.Load(ctx, "u1")
			if len(p.LastInteractions) != recommend.MaxLastInteractions {
				t.Fatalf("len = %d, want %d", len(p.LastInteractions), recommend.MaxLastInteractions)
			}
			if p.LastInteractions[0] != "c-59" || p.LastInteractions[49] != "c-10" {
				t.Errorf("history = [%s ... %s], want [c-59 ... c-10]", p.LastInteractions[0], p.LastInteractions[49])
			}
		})
	}
}

func TestStore_Ping(t *testing.T) {
	for _, f := range allFixtures(t) {
		t.Run(f.name, func(t *testing.T) {
			if err := f.store.Ping(context.Background()); err != nil {
				t.Errorf("Ping() error = %v", err)
			}
			if f.store.Backend() != f.name {
				t.Errorf("Backend() = %q, want %q", f.store.Backend(), f.name)
			}
		})
	}
}
