// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package main

import (
	"github.com/tomtom215/townsquare/internal/api"
	"github.com/tomtom215/townsquare/internal/config"
	"github.com/tomtom215/townsquare/internal/recommend"
	"github.com/tomtom215/townsquare/internal/recommend/storage"
)

func storageConfig(cfg *config.Config) storage.Config {
	breaker := storage.DefaultBreakerConfig()
	if cfg.Store.Redis.BreakerThreshold > 0 {
		breaker.FailureThreshold = cfg.Store.Redis.BreakerThreshold
	}
	if cfg.Store.Redis.BreakerTimeout > 0 {
		breaker.Timeout = cfg.Store.Redis.BreakerTimeout
	}

	return storage.Config{
		Backend: cfg.Store.Backend,
		Badger: storage.BadgerConfig{
			Path:       cfg.Store.Badger.Path,
			InMemory:   cfg.Store.Badger.InMemory,
			SyncWrites: cfg.Store.Badger.SyncWrites,
		},
		Redis: storage.RedisConfig{
			Addrs:        cfg.Store.Redis.Addrs,
			MasterName:   cfg.Store.Redis.MasterName,
			Username:     cfg.Store.Redis.Username,
			Password:     cfg.Store.Redis.Password,
			DB:           cfg.Store.Redis.DB,
			DialTimeout:  cfg.Store.Redis.DialTimeout,
			ReadTimeout:  cfg.Store.Redis.ReadTimeout,
			WriteTimeout: cfg.Store.Redis.WriteTimeout,
			KeyPrefix:    cfg.Store.Redis.KeyPrefix,
			Breaker:      breaker,
		},
	}
}

func recommendConfig(cfg *config.Config) *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.MaxItems = cfg.Recommend.MaxItems
	rc.StoreTimeout = cfg.Recommend.StoreTimeout
	return rc
}

func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled
	mw.AdminToken = cfg.Security.AdminToken
	return mw
}
