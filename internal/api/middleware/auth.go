// Package middleware provides HTTP middleware for the API layer.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/clarinote/clarinote-api/internal/api/shared"
	"github.com/clarinote/clarinote-api/internal/platform/logger"
	"github.com/clarinote/clarinote-api/internal/redact"
	"github.com/clarinote/clarinote-api/internal/service/auth"
	"github.com/google/uuid"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates JWT tokens from the Authorization header and
// adds the subject ID to the request context for authorized requests.
// Expired and otherwise invalid tokens are logged distinctly but produce
// the identical 401 response, so callers cannot distinguish the cause.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("missing authorization header",
				"path", r.URL.Path)
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("malformed authorization header",
				"path", r.URL.Path)
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		token := parts[1]

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				log.Warn("rejected expired token", "path", r.URL.Path)
			case errors.Is(err, auth.ErrInvalidToken):
				log.Warn("rejected invalid token", "path", r.URL.Path)
			default:
				log.Error("token validation error", "error", redact.Error(err))
			}
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), shared.SubjectIDContextKey, claims.SubjectID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSubjectID extracts the authenticated subject ID from the request context.
// Returns the subject ID and a boolean indicating if it was found.
func GetSubjectID(r *http.Request) (uuid.UUID, bool) {
	subjectID, ok := r.Context().Value(shared.SubjectIDContextKey).(uuid.UUID)
	return subjectID, ok
}
