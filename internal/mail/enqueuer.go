package mail

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"lifecourse/api/internal/config"
)

// Enqueuer pushes outbound mail onto the redis stream the worker
// consumes. The API process never talks to the mail provider directly.
type Enqueuer struct {
	queue  *redis.Client
	stream string
	cfg    config.MailConfig
}

func NewEnqueuer(queue *redis.Client, cfg config.MailConfig) *Enqueuer {
	return &Enqueuer{
		queue:  queue,
		stream: cfg.Stream,
		cfg:    cfg,
	}
}

func (e *Enqueuer) Enqueue(ctx context.Context, msg Message) error {
	if e.queue == nil {
		return nil
	}
	_, err := e.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: e.stream,
		Values: map[string]any{
			"to":       msg.To,
			"subject":  msg.Subject,
			"textBody": msg.TextBody,
			"htmlBody": msg.HTMLBody,
		},
	}).Result()
	return err
}

func (e *Enqueuer) EnqueueLoginOTP(ctx context.Context, to string, code string) error {
	return e.Enqueue(ctx, Message{
		To:       to,
		Subject:  "Login OTP - Lifecourse",
		TextBody: fmt.Sprintf("Your login OTP for Lifecourse is: %s\n\nThis code expires in 10 minutes.", code),
	})
}

func (e *Enqueuer) EnqueuePasswordReset(ctx context.Context, to string, userID string, token string) error {
	link := fmt.Sprintf("%s/reset-password-with-link?token=%s&id=%s", e.cfg.BaseURL, token, userID)
	return e.Enqueue(ctx, Message{
		To:      to,
		Subject: "Password Reset Request",
		TextBody: fmt.Sprintf(
			"You requested a password reset. Click the link below to reset your password:\n\n%s\n\nIf you did not request this, please contact admin.",
			link),
	})
}

func (e *Enqueuer) EnqueueInvoice(ctx context.Context, to string, name string, description string, amountMinor int64, currency string, orderRef string) error {
	amount := float64(amountMinor) / 100
	text := fmt.Sprintf(
		"Hi %s,\n\nThank you for your payment of %.2f %s for %s.\nOrder reference: %s\n\nWelcome aboard!",
		name, amount, currency, description, orderRef)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Thank you for your payment of <strong>%.2f %s</strong> for %s.</p><p>Order reference: %s</p><p>Welcome aboard!</p>`,
		name, amount, currency, description, orderRef)

	return e.Enqueue(ctx, Message{
		To:       to,
		Subject:  "Payment Confirmation - Lifecourse",
		TextBody: text,
		HTMLBody: html,
	})
}
