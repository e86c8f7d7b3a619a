package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/clarinote/clarinote-api/internal/api/shared"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// getSubjectIDFromContext extracts the authenticated subject's UUID from the
// request context. The subject ID is placed in the context by the
// authentication middleware.
func getSubjectIDFromContext(r *http.Request) (uuid.UUID, bool) {
	subjectID, ok := r.Context().Value(shared.SubjectIDContextKey).(uuid.UUID)
	if !ok || subjectID == uuid.Nil {
		return uuid.Nil, false
	}
	return subjectID, true
}

// getPathUUID extracts and parses a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("missing %s path parameter", paramName)
	}

	return uuid.Parse(pathParam)
}

// getQueryLimit reads an optional positive "limit" query parameter, falling
// back to def and capping at max.
func getQueryLimit(r *http.Request, def, max int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
