package models

import (
	"errors"
	"net/url"
	"strings"

	"github.com/dimaboro-code/onAI/internal/config"
)

// Validation errors returned by InboundMessage.Validate.
var (
	ErrEmptyMessage    = errors.New("message is required")
	ErrMessageTooLong  = errors.New("message exceeds maximum length")
	ErrInvalidCallback = errors.New("callback_url must be an absolute http(s) URL")
)

// InboundMessage is a user message accepted at the webhook, serialized
// verbatim onto the queue and decoded again by the consumer.
type InboundMessage struct {
	Message     string `json:"message"`
	CallbackURL string `json:"callback_url"`
}

// Validate checks the message bound and that the callback URL is absolute.
func (m *InboundMessage) Validate() error {
	if strings.TrimSpace(m.Message) == "" {
		return ErrEmptyMessage
	}
	if len(m.Message) > config.MessageMaxLen {
		return ErrMessageTooLong
	}
	u, err := url.Parse(m.CallbackURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ErrInvalidCallback
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidCallback
	}
	return nil
}

// OutboundMessage is the body posted to the caller's callback URL.
type OutboundMessage struct {
	Message string `json:"message"`
}
