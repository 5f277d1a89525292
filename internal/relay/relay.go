package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oklog/ulid/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/dimaboro-code/onAI/internal/metrics"
	"github.com/dimaboro-code/onAI/internal/models"
	"github.com/dimaboro-code/onAI/internal/store"
)

// Completer turns the conversation so far into a reply. Implementations never
// fail outward; provider errors come back as a fixed failure reply.
type Completer interface {
	Complete(ctx context.Context, history []models.Turn) string
}

// Deliverer posts the final answer to the caller's callback URL.
type Deliverer interface {
	Deliver(ctx context.Context, callbackURL, answer string) error
}

// Relay is the consumer-side pipeline: store the user turn, load history, ask
// for a completion, store the assistant turn, deliver the answer.
type Relay struct {
	store     store.ConversationStore
	completer Completer
	notifier  Deliverer
	logger    zerolog.Logger
}

// New creates a Relay over the given collaborators.
func New(st store.ConversationStore, completer Completer, notifier Deliverer, logger zerolog.Logger) *Relay {
	return &Relay{
		store:     st,
		completer: completer,
		notifier:  notifier,
		logger:    logger,
	}
}

// Run processes deliveries until the channel closes or ctx is done. Each
// delivery gets its own goroutine, so the broker's prefetch bounds
// concurrency. Two in-flight messages can interleave their store writes and
// produce an interleaved history; that matches the delivery semantics, turns
// carry no conversation key to serialize on.
func (r *Relay) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			go r.process(ctx, d)
		}
	}
}

// process handles one delivery inside a scoped acknowledgment: the message is
// acked when Handle returns cleanly, rejected without requeue when the
// payload cannot be decoded, and nacked back onto the queue if Handle
// panics (at-least-once; redelivery will duplicate the stored turns).
func (r *Relay) process(ctx context.Context, d amqp.Delivery) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().Interface("panic", rec).Msg("relay panicked, requeueing message")
			if err := d.Nack(false, true); err != nil {
				r.logger.Error().Err(err).Msg("nack failed")
			}
		}
	}()

	metrics.MessagesConsumed.Inc()

	if err := r.Handle(ctx, d.Body); err != nil {
		// A decode failure can never succeed on retry.
		r.logger.Error().Err(err).Msg("rejecting undecodable message")
		metrics.MessagesRejected.Inc()
		if err := d.Reject(false); err != nil {
			r.logger.Error().Err(err).Msg("reject failed")
		}
		return
	}

	if err := d.Ack(false); err != nil {
		r.logger.Error().Err(err).Msg("ack failed")
	}
}

// Handle runs the pipeline for one raw payload. The only error it returns is
// a decode/validation failure; everything downstream degrades in place.
func (r *Relay) Handle(ctx context.Context, body []byte) error {
	var msg models.InboundMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	logger := r.logger.With().Str("relay_id", ulid.Make().String()).Logger()
	logger.Info().Msg("processing message")

	answer := r.answer(ctx, logger, msg.Message)

	if err := r.notifier.Deliver(ctx, msg.CallbackURL, answer); err != nil {
		// Delivery failure is terminal for the answer but not for the message.
		logger.Error().Err(err).Str("callback_url", msg.CallbackURL).Msg("delivery failed")
		metrics.Deliveries.WithLabelValues("failed").Inc()
		return nil
	}
	metrics.Deliveries.WithLabelValues("ok").Inc()
	return nil
}

// answer appends the user turn, loads the full history, asks for a
// completion and appends the result as the assistant turn.
func (r *Relay) answer(ctx context.Context, logger zerolog.Logger, message string) string {
	if _, err := r.store.Append(ctx, message, models.RoleUser); err != nil {
		logger.Error().Err(err).Msg("user turn not recorded")
	} else {
		metrics.TurnsStored.WithLabelValues(string(models.RoleUser)).Inc()
	}

	history, err := r.store.ReadAll(ctx)
	if err != nil {
		// Answer with no context rather than abort.
		logger.Error().Err(err).Msg("history unavailable, continuing with empty context")
		history = nil
	}
	logger.Debug().Int("turns", len(history)).Msg("history loaded")

	answer := r.completer.Complete(ctx, history)

	if _, err := r.store.Append(ctx, answer, models.RoleAssistant); err != nil {
		logger.Error().Err(err).Msg("assistant turn not recorded")
	} else {
		metrics.TurnsStored.WithLabelValues(string(models.RoleAssistant)).Inc()
	}

	return answer
}
