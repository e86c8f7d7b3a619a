package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/clarinote/clarinote-api/internal/api"
	apiMiddleware "github.com/clarinote/clarinote-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.Recoverer)

	// Create API handlers using the application's services
	noteHandler := api.NewNoteHandler(app.noteService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// All note endpoints require a verified bearer credential.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/notes", noteHandler.CreateNote)
			r.Get("/notes", noteHandler.GetHistory)
			r.Get("/notes/stats", noteHandler.GetStats)
			r.Get("/notes/{id}", noteHandler.GetNote)
			r.Delete("/notes/{id}", noteHandler.DeleteNote)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
