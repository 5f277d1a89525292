package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dimaboro-code/onAI/internal/completion"
	"github.com/dimaboro-code/onAI/internal/config"
	"github.com/dimaboro-code/onAI/internal/delivery"
	"github.com/dimaboro-code/onAI/internal/queue"
	"github.com/dimaboro-code/onAI/internal/relay"
	"github.com/dimaboro-code/onAI/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize conversation store
	var st store.ConversationStore
	if cfg.DatabaseURL != "" {
		pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		st = pgStore
		logger.Info().Msg("connected to PostgreSQL")
	} else {
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		st = sqliteStore
		logger.Info().Str("path", cfg.SQLitePath).Msg("using SQLite store")
	}
	defer st.Close()

	if err := st.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("schema setup failed")
	}

	// Queue channel
	q := queue.New(cfg.RabbitURL, cfg.QueueName, logger)
	defer q.Close()

	deliveries, err := q.Consume(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("queue consume failed")
	}

	// Relay pipeline
	completer := completion.New(cfg.OpenAIKey, cfg.Model, logger)
	notifier := delivery.New(logger)
	r := relay.New(st, completer, notifier, logger)

	logger.Info().Str("queue", cfg.QueueName).Msg("waiting for messages")
	r.Run(ctx, deliveries)

	// In-flight messages are a best effort at this point; unacked ones are
	// redelivered after the connection closes.
	logger.Info().Msg("consumer stopped")
}
