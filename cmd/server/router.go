package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/phrazzld/journal-drill/internal/api"
	apiMiddleware "github.com/phrazzld/journal-drill/internal/api/middleware"
	"github.com/phrazzld/journal-drill/internal/api/shared"
	"github.com/phrazzld/journal-drill/internal/service/drill"
)

const requestTimeout = 30 * time.Second

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders: []string{"X-Trace-ID", shared.ProgressStoredHeader},
		MaxAge:         300,
	}))
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	// Client writes go straight to the store so failures reach the caller.
	persistence := api.NewPersistenceHandler(
		drill.NewStoreGateway(app.progress, app.attempts),
		app.catalog,
		app.drill,
		app.logger,
	)
	scenarios := api.NewScenarioHandler(app.catalog, app.logger)
	sessions := api.NewSessionHandler(app.drill, app.logger)
	health := api.NewHealthHandler(app.drill, app.config.Storage.Driver, app.ping, app.logger)

	r.Route("/api", func(r chi.Router) {
		// The handlers answer wrong methods themselves.
		r.HandleFunc("/attempt", persistence.Attempt)
		r.HandleFunc("/progress", persistence.Progress)

		r.Get("/scenarios", scenarios.List)
		r.Get("/scenarios/{id}", scenarios.Get)
		r.Get("/scenarios/{id}/solution", scenarios.Solution)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessions.Get)
			r.Delete("/", sessions.End)
			r.Post("/check", sessions.Check)
			r.Post("/advance", sessions.Advance)
			r.Post("/reset", sessions.Reset)
		})
	})

	r.Get("/health", health.Health)

	return r
}
