package middleware

import (
	"net/http"

	"github.com/clarinote/clarinote-api/internal/api/shared"
	"github.com/clarinote/clarinote-api/internal/platform/logger"
)

// Recoverer is the outermost failure boundary: any uncaught panic in a
// handler becomes a generic JSON 500 with no internal detail in the body.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log := logger.FromContext(r.Context())
				log.Error("panic recovered in request handler",
					"panic", rec,
					"path", r.URL.Path,
					"method", r.Method)

				shared.RespondWithError(w, r, http.StatusInternalServerError,
					"Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
