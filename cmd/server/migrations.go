package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/mnemolab/mnemo-api/migrations"
)

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf does not call os.Exit; the error propagates to main, which handles
// the exit consistently.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations executes the given goose command against the embedded
// migration set.
func runMigrations(db *sql.DB, command string, logger *slog.Logger) error {
	start := time.Now()
	migrationLogger := logger.With(
		slog.String("component", "migrations"),
		slog.String("command", command))

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	migrationLogger.Info("starting migration operation")

	var err error
	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	default:
		return fmt.Errorf("unknown migration command %q (want up, down or status)", command)
	}

	if err != nil {
		return fmt.Errorf("migration command %q failed: %w", command, err)
	}

	migrationLogger.Info("migration operation completed",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
