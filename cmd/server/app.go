package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/clarinote/clarinote-api/internal/config"
	"github.com/clarinote/clarinote-api/internal/normalize"
	"github.com/clarinote/clarinote-api/internal/platform/gemini"
	"github.com/clarinote/clarinote-api/internal/platform/postgres"
	"github.com/clarinote/clarinote-api/internal/service"
	"github.com/clarinote/clarinote-api/internal/service/auth"
	"github.com/clarinote/clarinote-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown. Collaborators are
// explicitly constructed and injected here, never process-wide singletons,
// so tests can substitute fakes.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	noteStore store.NoteStore

	// Service interfaces
	jwtService  auth.JWTService
	normalizer  normalize.Normalizer
	noteService service.NoteService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize stores
	app.noteStore = postgres.NewPostgresNoteStore(db, logger)

	// Create the normalization client
	app.normalizer, err = gemini.NewNormalizer(
		ctx,
		logger.With("component", "normalizer"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize normalizer: %w", err)
	}
	logger.Info("normalization client initialized", "model", cfg.LLM.ModelName)

	// Initialize the orchestrating note service
	app.noteService = service.NewNoteService(app.normalizer, app.noteStore, logger)

	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
