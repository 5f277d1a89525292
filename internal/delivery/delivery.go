package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/dimaboro-code/onAI/internal/models"
)

// Notifier posts final answers to caller-supplied callback URLs. There is no
// retry and no signature; an undelivered answer is lost.
type Notifier struct {
	http   *resty.Client
	logger zerolog.Logger
}

// New creates a Notifier with a bounded request timeout.
func New(logger zerolog.Logger) *Notifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Notifier{http: client, logger: logger}
}

// Deliver posts {"message": answer} to callbackURL. A non-2xx status counts
// as a failure so the caller can log it.
func (n *Notifier) Deliver(ctx context.Context, callbackURL, answer string) error {
	resp, err := n.http.R().
		SetContext(ctx).
		SetBody(models.OutboundMessage{Message: answer}).
		Post(callbackURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("callback returned status %d", resp.StatusCode())
	}

	n.logger.Info().
		Str("callback_url", callbackURL).
		Int("status", resp.StatusCode()).
		Msg("answer delivered")
	return nil
}
