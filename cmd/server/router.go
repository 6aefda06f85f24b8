package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ahappyphrog/harmonic-take-home/internal/api"
	apiMiddleware "github.com/ahappyphrog/harmonic-take-home/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(
		apiMiddleware.NewTraceMiddleware(app.logger),
	) // Add trace IDs for improved error handling

	// Create API handlers using the application's services
	collectionHandler := api.NewCollectionHandler(app.collectionService, app.logger)
	taskHandler := api.NewTaskHandler(app.registry, app.logger)

	// Register routes
	r.Get("/collections", collectionHandler.ListCollections)
	r.Get("/collections/{id}", collectionHandler.GetCollection)
	r.Post("/collections/{id}/companies", collectionHandler.AddCompanies)
	r.Post("/collections/{id}/companies/bulk", collectionHandler.BulkAddCompanies)
	r.Get("/tasks/{id}", taskHandler.GetTask)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
