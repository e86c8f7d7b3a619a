package api

import (
	"errors"
	"net/http"

	"github.com/clarinote/clarinote-api/internal/api/shared"
	"github.com/clarinote/clarinote-api/internal/normalize"
	"github.com/clarinote/clarinote-api/internal/service/auth"
	"github.com/clarinote/clarinote-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Input validation errors
	case errors.Is(err, normalize.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Normalization backend errors. All kinds, including throttling, map to
	// a plain 500; the classified kind stays in the server-side logs.
	case errors.Is(err, normalize.ErrServiceNotConfigured),
		errors.Is(err, normalize.ErrInputRejected),
		errors.Is(err, normalize.ErrOverloaded),
		errors.Is(err, normalize.ErrUnavailable):
		return http.StatusInternalServerError

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking backend internals or
// sensitive details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid or expired token"

	// Input validation errors
	case errors.Is(err, normalize.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidEntity):
		return "Note cannot be empty"

	// Not found errors
	case errors.Is(err, store.ErrNoteNotFound):
		return "Note not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	// Normalization backend errors: one generic message for every kind, so
	// provider internals never reach end users.
	case errors.Is(err, normalize.ErrServiceNotConfigured),
		errors.Is(err, normalize.ErrInputRejected),
		errors.Is(err, normalize.ErrOverloaded),
		errors.Is(err, normalize.ErrUnavailable):
		return "AI service is temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes an error response using the status code and
// sanitized message derived from the error type, logging the real error
// server-side. An explicit userMessage overrides the derived one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}
