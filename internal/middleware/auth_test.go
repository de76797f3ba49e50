package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func authServer(secret string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Auth(secret)(next)
}

func TestAuthAcceptsValidToken(t *testing.T) {
	h := authServer("s3cret")

	r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	r.Header.Set(AuthHeaderName, "s3cret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("Expected 200 with valid token, got %d", w.Result().StatusCode)
	}
}

func TestAuthRejects(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"wrong token", "guess"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := authServer("s3cret")

			r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
			if tt.token != "" {
				r.Header.Set(AuthHeaderName, tt.token)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			resp := w.Result()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("Expected 401, got %d", resp.StatusCode)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if body["error"] != "Unauthorized" {
				t.Errorf("Expected error=Unauthorized, got %q", body["error"])
			}
		})
	}
}

func TestAuthDisabledWithoutSecret(t *testing.T) {
	h := authServer("")

	r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("Expected pass-through when no secret configured, got %d", w.Result().StatusCode)
	}
}
