// Package main implements the entry point for the collections API server
// which manages company collections and runs background merge jobs that
// copy companies between them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
)

func main() {
	migrateCmd := flag.String(
		"migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

// run loads configuration, wires dependencies and either executes a
// migration command or starts the HTTP server.
func run(migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := setupAppLogger(cfg); err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	if migrateCmd != "" {
		return runMigrations(cfg, migrateCmd)
	}

	ctx := context.Background()

	db, err := setupAppDatabase(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	// Apply pending migrations before serving traffic.
	if err := migrateUp(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Error closing database connection", "error", closeErr)
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	app, err := newApplication(cfg, slog.Default(), db)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Error closing database connection", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
