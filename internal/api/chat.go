package api

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kwieczorek/cvchat/internal/domain"
	"github.com/kwieczorek/cvchat/internal/ratelimit"
	"github.com/kwieczorek/cvchat/internal/validate"
)

// chatRequest is the client payload for POST /api/chat.
type chatRequest struct {
	Message json.RawMessage `json:"message"`
	History []historyEntry  `json:"history"`
}

type historyEntry struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// RegisterRoutes registers the chat and visit endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(api chi.Router) {
		// Wrong-method requests get an explicit JSON 405 instead of
		// chi's bare default.
		api.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
			Error(w, http.StatusMethodNotAllowed, "Method not allowed.")
		})
		api.Post("/chat", h.Chat)
		api.Get("/visits", h.Visits)
	})
}

// Chat handles POST /api/chat. Pre-flight and the auth gate run in
// middleware before this; every remaining step can short-circuit with
// an error response.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if !h.checkContentType(w, r) {
		return
	}

	if !h.chatLimiter.Admit(ratelimit.ClientID(r)) {
		h.metrics.RecordRateLimited("chat")
		h.metrics.RecordRequest("chat", http.StatusTooManyRequests)
		rateLimited(w)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RecordRequest("chat", http.StatusBadRequest)
		Error(w, http.StatusBadRequest, "Invalid JSON.")
		return
	}

	history := h.sanitizeHistory(req.History)

	message, err := validate.Message(decodeRaw(req.Message))
	if err != nil {
		status := validate.Status(err)
		h.metrics.RecordValidationReject(validate.Rule(err))
		h.metrics.RecordRequest("chat", status)
		Error(w, status, err.Error())
		return
	}

	reply, err := h.converse(r, history, message)
	if err != nil {
		requestID := uuid.NewString()
		slog.Error("Chat request failed", "request_id", requestID, "error", err)
		h.metrics.RecordRequest("chat", http.StatusInternalServerError)
		JSON(w, http.StatusInternalServerError, map[string]string{
			"error":      "Internal server error",
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordRequest("chat", http.StatusOK)
	JSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// converse builds the system prompt and calls the model provider.
func (h *Handler) converse(r *http.Request, history []domain.Message, message string) (string, error) {
	profileJSON, err := h.profiles.Load()
	if err != nil {
		return "", err
	}

	messages := make([]domain.Message, 0, len(history)+2)
	messages = append(messages, domain.Message{
		Role:    domain.RoleSystem,
		Content: h.template.BuildSystemPrompt(profileJSON),
	})
	messages = append(messages, history...)
	messages = append(messages, domain.Message{Role: domain.RoleUser, Content: message})

	start := time.Now()
	reply, err := h.completer.Complete(r.Context(), messages)
	h.metrics.ObserveProviderLatency(time.Since(start))
	if err != nil {
		h.metrics.RecordProviderError()
		return "", err
	}
	return reply, nil
}

// sanitizeHistory keeps at most the last historyLimit entries whose
// role is user or assistant and whose content passes validation. Bad
// entries are dropped silently; stale or tampered history must not fail
// the whole request.
func (h *Handler) sanitizeHistory(entries []historyEntry) []domain.Message {
	if len(entries) > h.historyLimit {
		entries = entries[len(entries)-h.historyLimit:]
	}

	kept := make([]domain.Message, 0, len(entries))
	for _, e := range entries {
		if !domain.ValidHistoryRole(e.Role) {
			continue
		}
		content, err := validate.Message(decodeRaw(e.Content))
		if err != nil {
			continue
		}
		kept = append(kept, domain.Message{Role: e.Role, Content: content})
	}
	return kept
}

// checkContentType enforces the JSON media type on the request.
func (h *Handler) checkContentType(w http.ResponseWriter, r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil || mediaType != "application/json" {
		h.metrics.RecordRequest("chat", http.StatusUnsupportedMediaType)
		Error(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json.")
		return false
	}
	return true
}

// decodeRaw turns a raw JSON value into the dynamic form the validator
// expects: string for JSON strings, a non-string placeholder otherwise,
// nil when the field is absent.
func decodeRaw(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
