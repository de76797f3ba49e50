package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AuthHeaderName is the custom header carrying the shared site token.
const AuthHeaderName = "X-App-Auth"

// Auth returns middleware enforcing the shared static token. This is
// coarse application-level gating for a single-owner deployment, not
// per-user authentication. An empty secret disables the check, leaving
// the CORS allow-list as the only access guard.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(AuthHeaderName)
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
