package http

import (
	"net/http"
	"strings"
)

const (
	cspDeny = "default-src 'none'"
	// The embedded Swagger UI needs inline scripts, inline styles, and data:
	// images to render.
	cspSwaggerUI = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"
)

// SecurityHeaders sets the headers every response carries. The API serves
// JSON only, so the content security policy denies everything outside the
// Swagger UI subtree.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		csp := cspDeny
		if strings.HasPrefix(r.URL.Path, "/swagger/") {
			csp = cspSwaggerUI
		}
		h.Set("Content-Security-Policy", csp)

		next.ServeHTTP(w, r)
	})
}
