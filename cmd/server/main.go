// Townsquare - Community Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/townsquare

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/townsquare/internal/api"
	"github.com/tomtom215/townsquare/internal/config"
	"github.com/tomtom215/townsquare/internal/logging"
	"github.com/tomtom215/townsquare/internal/metrics"
	"github.com/tomtom215/townsquare/internal/recommend"
	"github.com/tomtom215/townsquare/internal/recommend/storage"
	"github.com/tomtom215/townsquare/internal/supervisor"
	"github.com/tomtom215/townsquare/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet; main reports through the default logger.
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("store_backend", cfg.Store.Backend).
		Msg("Starting Townsquare")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handle, err := storage.Open(ctx, storageConfig(cfg), logging.WithComponent("store"))
	if err != nil {
		return err
	}
	defer func() {
		if err := handle.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing preference store")
		}
	}()

	recCfg := recommendConfig(cfg)
	scorer, err := recommend.NewScorer(handle.Store, recCfg, logging.WithComponent("scorer"))
	if err != nil {
		return err
	}
	tracker, err := recommend.NewTracker(handle.Store, recCfg, logging.WithComponent("tracker"))
	if err != nil {
		return err
	}

	handler, err := api.NewHandler(scorer, tracker, handle.Store, version)
	if err != nil {
		return err
	}
	router := api.NewRouter(handler, middlewareConfig(cfg))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		return err
	}

	addServices(tree, handle.Store, server, cfg)

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().
		Int64("rank_requests", scorer.GetStats().RequestCount).
		Int64("interactions", tracker.GetStats().TrackCount).
		Msg("Townsquare stopped")
	return nil
}

// addServices registers the long-running services with the tree.
func addServices(tree *supervisor.SupervisorTree, store storage.Store, server services.HTTPServer, cfg *config.Config) {
	tree.AddDataService(services.NewHealthMonitorService(store, services.DefaultHealthInterval, logging.WithComponent("supervisor")))

	if gc, ok := store.(services.GarbageCollector); ok {
		tree.AddDataService(services.NewValueLogGCService(gc, services.DefaultGCInterval, services.DefaultGCDiscardRatio, logging.WithComponent("supervisor")))
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("supervisor")))
}
