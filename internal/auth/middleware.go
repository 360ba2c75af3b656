package auth

import (
	"context"
	"net/http"
	"strings"

	"taskhub/internal/httputil"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const UserIDContextKey ContextKey = "user_id"

// Middleware handles authentication for protected routes
type Middleware struct {
	tokens TokenService
}

func NewMiddleware(tokens TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// RequireAuth validates the bearer token and attaches the caller's user id to
// the request context. Only the Authorization header is consulted; the cookie
// the browser client mirrors the token into is never read here.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			httputil.RespondError(w, "Missing or invalid authorization token", http.StatusUnauthorized)
			return
		}

		userID, err := m.tokens.VerifyToken(token)
		if err != nil {
			httputil.RespondError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the authenticated user id from the request context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(int64)
	return userID, ok
}
