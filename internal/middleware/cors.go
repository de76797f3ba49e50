// Package middleware provides HTTP middleware for the CV chat API.
package middleware

import "net/http"

// CORS returns middleware implementing the origin guard: a matched
// Origin header is echoed back (with Vary: Origin so caches keep the
// responses apart), anything else falls back to the canonical site
// origin. Pre-flight requests are answered here and never reach the
// handlers.
func CORS(allowedOrigins []string, fallbackOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowOrigin := fallbackOrigin
			for _, o := range allowedOrigins {
				if o == origin {
					allowOrigin = origin
					break
				}
			}

			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Add("Vary", "Origin")

			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				w.Header().Set("Access-Control-Allow-Headers", reqHeaders)
			} else {
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+AuthHeaderName)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
