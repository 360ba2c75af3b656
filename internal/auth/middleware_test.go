package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	tokens, err := NewJWTService([]byte("test-secret"))
	require.NoError(t, err)
	mw := NewMiddleware(tokens)

	var gotUserID int64
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotOK = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	validToken, err := tokens.CreateToken(42)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantError  string
	}{
		{"no header", "", http.StatusUnauthorized, "Missing or invalid authorization token"},
		{"wrong scheme", "Basic abc123", http.StatusUnauthorized, "Missing or invalid authorization token"},
		{"bearer without token", "Bearer ", http.StatusUnauthorized, "Missing or invalid authorization token"},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid token", "Bearer " + validToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID, gotOK = 0, false

			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.RequireAuth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantError, body["error"])
				assert.False(t, gotOK)
			} else {
				assert.True(t, gotOK)
				assert.Equal(t, int64(42), gotUserID)
			}
		})
	}
}

func TestRequireAuth_IgnoresCookie(t *testing.T) {
	tokens, err := NewJWTService([]byte("test-secret"))
	require.NoError(t, err)
	mw := NewMiddleware(tokens)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	validToken, err := tokens.CreateToken(42)
	require.NoError(t, err)

	// The browser client mirrors the token into a cookie for route gating;
	// the server must never accept it from there.
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: validToken})
	rec := httptest.NewRecorder()

	mw.RequireAuth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
