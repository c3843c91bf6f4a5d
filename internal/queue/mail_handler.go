package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lifecourse/api/internal/mail"
)

// MailHandler delivers stream entries as outbound email.
type MailHandler struct {
	client *mail.Client
	logger zerolog.Logger
}

func NewMailHandler(client *mail.Client, logger zerolog.Logger) *MailHandler {
	return &MailHandler{client: client, logger: logger}
}

func (h *MailHandler) Handle(ctx context.Context, msg redis.XMessage) error {
	message := mail.Message{
		To:       stringField(msg.Values, "to"),
		Subject:  stringField(msg.Values, "subject"),
		TextBody: stringField(msg.Values, "textBody"),
		HTMLBody: stringField(msg.Values, "htmlBody"),
	}

	if message.To == "" || message.Subject == "" {
		return fmt.Errorf("malformed mail entry %s: missing to or subject", msg.ID)
	}

	if !h.client.Configured() {
		// Deliberately ack: unconfigured environments drop mail rather
		// than letting the stream grow without bound.
		h.logger.Warn().
			Str("to", message.To).
			Str("subject", message.Subject).
			Msg("mail provider not configured, dropping message")
		return nil
	}

	if err := h.client.Send(ctx, message); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	h.logger.Info().
		Str("to", message.To).
		Str("subject", message.Subject).
		Msg("mail delivered")
	return nil
}

func stringField(values map[string]any, key string) string {
	if v, ok := values[key].(string); ok {
		return v
	}
	return ""
}
