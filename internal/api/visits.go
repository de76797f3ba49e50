package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/kwieczorek/cvchat/internal/ratelimit"
)

// Visits handles GET /api/visits: increments the persisted counter and
// returns the new value. The counter is approximate abuse-dampened page
// analytics, so it shares the chat endpoint's throttling shape with its
// own ceiling.
func (h *Handler) Visits(w http.ResponseWriter, r *http.Request) {
	if !h.visitLimiter.Admit(ratelimit.ClientID(r)) {
		h.metrics.RecordRateLimited("visits")
		h.metrics.RecordRequest("visits", http.StatusTooManyRequests)
		rateLimited(w)
		return
	}

	count, err := h.repo.IncrementVisits(r.Context())
	if err != nil {
		requestID := uuid.NewString()
		slog.Error("Visit counter increment failed", "request_id", requestID, "error", err)
		h.metrics.RecordRequest("visits", http.StatusInternalServerError)
		JSON(w, http.StatusInternalServerError, map[string]string{
			"error":      "Internal server error",
			"request_id": requestID,
		})
		return
	}

	h.metrics.SetVisitCount(count)
	h.metrics.RecordRequest("visits", http.StatusOK)
	JSON(w, http.StatusOK, map[string]int64{"visits": count})
}
