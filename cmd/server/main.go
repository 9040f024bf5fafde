// Package main implements the entry point for the mnemo API server, which
// stores flashcards and schedules their reviews along the forgetting curve.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/mnemolab/mnemo-api/internal/config"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command instead of the server (up, down, status)")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("mnemo-api: %v", err)
	}
}

// run loads configuration, wires the application together and either applies
// migrations or serves HTTP until shutdown.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if migrateCmd != "" {
		defer func() {
			if err := db.Close(); err != nil {
				appLogger.Error("error closing database connection", "error", err)
			}
		}()
		return runMigrations(db, migrateCmd, appLogger)
	}

	// The server always runs against an up-to-date schema.
	if err := runMigrations(db, "up", appLogger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
