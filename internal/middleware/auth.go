// Package middleware provides HTTP middlewares for authentication,
// request logging, and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"notehub/internal/token"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier verifies a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// Auth enforces bearer-token authentication.
//
// It expects an "Authorization: Bearer <token>" header, verifies the
// token, and stores the authenticated user id in the request context
// so it can be used downstream as the trusted owner identity. Requests
// without a valid token are rejected with 401.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString := strings.TrimPrefix(header, "Bearer ")
			if header == "" || tokenString == header {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user id from the
// request context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
