// Package ui exposes the retention model as a JSON HTTP API. It is a thin
// presentation layer: handlers decode numeric inputs, call the application
// service, and encode numeric outputs.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"churnkit/app"
)

// App represents the HTTP API application
type App struct {
	router  *chi.Mux
	service *app.RetentionService
}

// Config holds API application configuration
type Config struct {
	Port           string
	MaxConcurrency int
}

// NewApp creates the API application and wires its routes.
func NewApp(config Config) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: app.NewRetentionService(config.MaxConcurrency),
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a
}

// Router returns the HTTP handler for serving.
func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
}

func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api", func(r chi.Router) {
		r.Post("/fit", a.handleFit)
		r.Post("/project", a.handleProject)
		r.Post("/value", a.handleValue)
	})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
