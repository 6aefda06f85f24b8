package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ahappyphrog/harmonic-take-home/internal/config"
	"github.com/ahappyphrog/harmonic-take-home/internal/platform/postgres"
	"github.com/ahappyphrog/harmonic-take-home/internal/service"
	"github.com/ahappyphrog/harmonic-take-home/internal/store"
	"github.com/ahappyphrog/harmonic-take-home/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	collectionStore store.CollectionStore
	companyStore    store.CompanyStore

	// Task handling
	registry   *task.Registry
	queue      *task.JobQueue
	dispatcher *task.Dispatcher

	// Service layer
	collectionService *service.CollectionService
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.collectionStore = postgres.NewPostgresCollectionStore(db, logger)
	app.companyStore = postgres.NewPostgresCompanyStore(db, logger)

	// Initialize the task subsystem: in-memory registry, bounded job queue
	// and the dispatcher draining it
	app.registry = task.NewRegistry(logger)
	app.queue = task.NewJobQueue(cfg.Task.QueueSize, logger)
	app.dispatcher = task.NewDispatcher(app.queue, task.DispatcherConfig{
		WorkerCount: cfg.Task.WorkerCount,
	}, logger)
	app.dispatcher.Start()

	// Initialize collection service
	var err error
	app.collectionService, err = service.NewCollectionService(
		app.collectionStore,
		app.companyStore,
		app.registry,
		app.queue,
		cfg.Task.MergeBatchSize,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// Set up router using the application dependencies
	router := app.setupRouter()

	// Start the HTTP server
	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop accepting new jobs, then wait for in-flight jobs to finish
	if app.queue != nil {
		app.queue.Close()
	}
	if app.dispatcher != nil {
		app.dispatcher.Stop()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
