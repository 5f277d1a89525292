package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dimaboro-code/onAI/internal/store"
)

// Publisher puts a serialized message onto the durable queue. Ping reports
// whether the broker is reachable right now.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
	Ping(ctx context.Context) error
}

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	store  store.ConversationStore
	pub    Publisher
	redis  *redis.Client
	logger zerolog.Logger
}

// NewHandler creates a new Handler with the given collaborators.
func NewHandler(st store.ConversationStore, pub Publisher, redisClient *redis.Client, logger zerolog.Logger) *Handler {
	return &Handler{store: st, pub: pub, redis: redisClient, logger: logger}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
