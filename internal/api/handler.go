// Package api provides HTTP handlers for the CV chat API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/kwieczorek/cvchat/internal/llm"
	"github.com/kwieczorek/cvchat/internal/observability"
	"github.com/kwieczorek/cvchat/internal/profile"
	"github.com/kwieczorek/cvchat/internal/prompt"
	"github.com/kwieczorek/cvchat/internal/ratelimit"
	"github.com/kwieczorek/cvchat/internal/store"
)

// Handler holds the dependencies shared by the API endpoints.
type Handler struct {
	repo         store.Repository
	completer    llm.Completer
	profiles     *profile.Loader
	template     prompt.Template
	chatLimiter  ratelimit.Admitter
	visitLimiter ratelimit.Admitter
	metrics      *observability.Metrics
	historyLimit int
}

// NewHandler creates a new Handler with common dependencies. A nil
// metrics value disables instrumentation.
func NewHandler(
	repo store.Repository,
	completer llm.Completer,
	profiles *profile.Loader,
	template prompt.Template,
	chatLimiter, visitLimiter ratelimit.Admitter,
	metrics *observability.Metrics,
	historyLimit int,
) *Handler {
	return &Handler{
		repo:         repo,
		completer:    completer,
		profiles:     profiles,
		template:     template,
		chatLimiter:  chatLimiter,
		visitLimiter: visitLimiter,
		metrics:      metrics,
		historyLimit: historyLimit,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// rateLimited writes the throttling response shared by both endpoints.
func rateLimited(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "60")
	Error(w, http.StatusTooManyRequests, "Too many requests. Please retry later.")
}
