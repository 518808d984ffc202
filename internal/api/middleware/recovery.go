package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mverne/openrealm/internal/api/apierr"
)

// Recovery recovers from panics in handlers and returns a JSON error
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic in handler",
						"error", rec,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					apierr.WriteError(w, apierr.NewInternalError())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
