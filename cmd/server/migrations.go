package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/ahappyphrog/harmonic-take-home/internal/config"
	"github.com/ahappyphrog/harmonic-take-home/internal/platform/postgres"
)

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct{}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error.
// Unlike the standard Fatalf behavior, this does NOT call os.Exit so that
// main can handle application exit consistently.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// setupGoose points goose at the embedded migration files.
func setupGoose() error {
	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(postgres.MigrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return nil
}

// migrateUp applies all pending migrations on the given connection.
func migrateUp(db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

// runMigrations executes the requested migration command and returns.
// It opens its own connection so the server wiring never runs.
func runMigrations(cfg *config.Config, command string) error {
	db, err := setupAppDatabase(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to set up database for migrations: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
		}
	}()

	if err := setupGoose(); err != nil {
		return err
	}

	slog.Info("Executing migrations", "command", command)

	switch command {
	case "up":
		err = goose.Up(db, "migrations")
	case "down":
		err = goose.Down(db, "migrations")
	case "status":
		err = goose.Status(db, "migrations")
	default:
		return fmt.Errorf("unknown migration command: %q", command)
	}

	if err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}
