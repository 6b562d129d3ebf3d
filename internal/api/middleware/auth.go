package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/response"
)

// Authenticator resolves a session token to a user id.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>" header
// with 401 Unauthorized. The authenticated user id is stored in the request context.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Malformed authorization header")
				return
			}

			userID, err := auth.Authenticate(strings.TrimSpace(token))
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id stored by RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
