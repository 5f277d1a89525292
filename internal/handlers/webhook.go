package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dimaboro-code/onAI/internal/metrics"
	"github.com/dimaboro-code/onAI/internal/models"
)

// WebhookResponse is the queue-publish acknowledgment.
type WebhookResponse struct {
	Status string `json:"status"`
}

// Webhook accepts a user message plus callback URL and publishes it to the
// queue. The reply arrives later at the callback URL; this endpoint only
// acknowledges the enqueue.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var msg models.InboundMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := msg.Validate(); err != nil {
		switch {
		case errors.Is(err, models.ErrMessageTooLong):
			h.Error(w, http.StatusBadRequest, "message exceeds maximum length")
		case errors.Is(err, models.ErrInvalidCallback):
			h.Error(w, http.StatusBadRequest, "callback_url must be an absolute http(s) URL")
		default:
			h.Error(w, http.StatusBadRequest, "message is required")
		}
		return
	}

	body, err := json.Marshal(msg)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to serialize message")
		return
	}

	// Publish failures surface to the caller; nothing is retried here, the
	// caller resubmits.
	if err := h.pub.Publish(r.Context(), body); err != nil {
		h.logger.Error().Err(err).Msg("queue publish failed")
		h.Error(w, http.StatusInternalServerError, "queue unavailable")
		return
	}

	metrics.MessagesPublished.Inc()
	h.logger.Info().Msg("message queued")
	h.JSON(w, http.StatusOK, WebhookResponse{Status: "queued"})
}
