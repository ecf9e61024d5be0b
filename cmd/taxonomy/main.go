// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the taxonomy service. The binary
// serves the category API and carries the maintenance commands that manage
// the database schema and development data.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"taxonomy/internal/config"
	"taxonomy/internal/database"
	"taxonomy/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	// Filled in by PersistentPreRunE before any subcommand runs.
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:           "taxonomy",
		Short:         "Category hierarchy service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			*cfg = *loaded
			setupLogger(cfg)
			return nil
		},
	}

	cmd.AddCommand(serveCmd(cfg), migrateCmd(cfg), seedCmd(cfg))
	return cmd
}

// setupLogger installs the default slog logger: text output in
// development, JSON everywhere else.
func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func migrateCmd(cfg *config.Config) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect(cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			if status {
				return database.MigrationStatus(db)
			}
			return database.Migrate(db)
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "Print migration status instead of migrating")
	return cmd
}

func seedCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample categories into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect(cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(db); err != nil {
				return err
			}
			if err := database.Seed(db); err != nil {
				return err
			}

			n, err := store.NewCategoryStore(db).Count(context.Background())
			if err != nil {
				return err
			}
			slog.Info("seed complete", "categories", n)
			return nil
		},
	}
}
