package completion

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/dimaboro-code/onAI/internal/metrics"
	"github.com/dimaboro-code/onAI/internal/models"
)

// FailureReply is the fixed answer substituted when the provider call fails.
// It is stored and delivered like any other assistant turn.
const FailureReply = "Sorry, something went wrong while processing your request."

// Client adapts an ordered conversation history into a single reply via the
// OpenAI chat-completions API. Provider failures never escape Complete.
type Client struct {
	api    *openai.Client
	model  string
	logger zerolog.Logger
}

// New creates a completion client for the given model.
func New(apiKey, model string, logger zerolog.Logger) *Client {
	return &Client{
		api:    openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// Complete asks the model to reply to the conversation so far. Any transport
// or provider error is logged and replaced with FailureReply.
func (c *Client) Complete(ctx context.Context, history []models.Turn) string {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, turn := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	})
	metrics.CompletionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Error().Err(err).Str("model", c.model).Msg("completion request failed")
		metrics.Completions.WithLabelValues("failed").Inc()
		return FailureReply
	}
	if len(resp.Choices) == 0 {
		c.logger.Error().Str("model", c.model).Msg("completion response has no choices")
		metrics.Completions.WithLabelValues("failed").Inc()
		return FailureReply
	}

	metrics.Completions.WithLabelValues("ok").Inc()
	return resp.Choices[0].Message.Content
}
