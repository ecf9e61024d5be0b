// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"taxonomy/internal/cache"
	"taxonomy/internal/config"
	"taxonomy/internal/database"
	"taxonomy/internal/handlers"
	"taxonomy/internal/hierarchy"
	"taxonomy/internal/metrics"
	"taxonomy/internal/middleware"
	"taxonomy/internal/router"
	"taxonomy/internal/store"
)

func serveCmd(cfg *config.Config) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the category API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg, seed)
		},
	}

	// Off by default: a fresh server starts with an empty forest.
	cmd.Flags().BoolVar(&seed, "seed", false, "Insert sample categories when the database is empty")
	return cmd
}

func serve(cfg *config.Config, seed bool) error {
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed sample data only on request (no-op if data already exists).
	if seed {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	collector := metrics.New("taxonomy")

	limiter, closeLimiter, err := newLimiter(cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	categoryStore := store.NewCategoryStore(db)
	manager := hierarchy.NewManager(hierarchy.NewPostgresStore(categoryStore), collector)

	r := router.New(handlers.NewCategories(manager), categoryStore, collector, limiter)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newLimiter returns the Valkey-backed limiter when Valkey is configured,
// so every replica shares one budget per client, and the in-process
// limiter otherwise. The returned func releases its resources.
func newLimiter(cfg *config.Config) (middleware.Allower, func(), error) {
	if !cfg.ValkeyEnabled() {
		slog.Warn("valkey not configured, using in-process rate limiter")
		rl := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
		return rl, rl.Stop, nil
	}

	client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("valkey rate limiter enabled",
		"limit", cfg.RateLimit,
		"window", cfg.RateLimitWindow,
	)
	closeClient := func() {
		if err := client.Close(); err != nil {
			slog.Warn("close valkey client", "error", err)
		}
	}
	return cache.NewRateLimiter(client, cfg.RateLimit, cfg.RateLimitWindow), closeClient, nil
}
