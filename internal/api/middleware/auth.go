package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mverne/openrealm/internal/api/apierr"
	"github.com/mverne/openrealm/internal/model"
	"github.com/mverne/openrealm/internal/storage"
)

type contextKey string

const sessionContextKey contextKey = "account_session"

// Auth requires a valid session token on each request.
// The token is taken from the Authorization header as a bearer token.
func Auth(store storage.Storage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := store.GetSession(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAccountSession retrieves the authenticated session from the request context
func GetAccountSession(ctx context.Context) (*model.AccountSession, bool) {
	session, ok := ctx.Value(sessionContextKey).(*model.AccountSession)
	return session, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}
