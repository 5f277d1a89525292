package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dimaboro-code/onAI/internal/api/middleware"
	"github.com/dimaboro-code/onAI/internal/config"
	"github.com/dimaboro-code/onAI/internal/handlers"
	"github.com/dimaboro-code/onAI/internal/store"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, st store.ConversationStore, pub handlers.Publisher, redisClient *redis.Client) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	r.Use(middleware.MaxBodySize(config.MaxBodyBytes))

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(st, pub, redisClient, logger)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", h.Health)
	r.Get("/delete_dialog_data", h.DeleteDialogData)

	// Rate-limited ingest
	r.Group(func(r chi.Router) {
		limiter := middleware.NewRateLimiter(
			middleware.NewRedisCounter(redisClient),
			config.RateLimitCount,
			config.RateLimitWindow,
			logger,
		)
		r.Use(limiter.Middleware)

		r.Post("/webhook", h.Webhook)
	})

	return r
}
