package billing

import (
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"

	"lifecourse/api/internal/config"
)

var ErrPaymentNotSettled = errors.New("payment not settled")

// Order is what the frontend needs to drive the provider checkout.
type Order struct {
	OrderID      string `json:"orderId"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// Client wraps the payment gateway. Registration proceeds only after
// ConfirmOrder verifies the referenced payment actually settled.
type Client struct {
	cfg config.PaymentConfig
}

func NewClient(cfg config.PaymentConfig) *Client {
	stripe.Key = cfg.SecretKey
	return &Client{cfg: cfg}
}

// CreateCourseOrder opens a payment order for the full course.
func (c *Client) CreateCourseOrder(email string) (Order, error) {
	return c.createOrder(c.cfg.CourseAmount, email, "course")
}

// CreateIntroOrder opens a payment order for a one-off intro session.
func (c *Client) CreateIntroOrder(email string) (Order, error) {
	return c.createOrder(c.cfg.IntroAmount, email, "intro-session")
}

func (c *Client) createOrder(amount int64, email string, product string) (Order, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(c.cfg.Currency),
	}
	params.AddMetadata("product", product)
	if email != "" {
		params.ReceiptEmail = stripe.String(email)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return Order{}, fmt.Errorf("create payment order: %w", err)
	}

	return Order{
		OrderID:      intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
	}, nil
}

// ConfirmOrder checks that the order referenced at registration time has
// settled on the gateway side.
func (c *Client) ConfirmOrder(orderID string) error {
	intent, err := paymentintent.Get(orderID, nil)
	if err != nil {
		return fmt.Errorf("fetch payment order: %w", err)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return ErrPaymentNotSettled
	}
	return nil
}

// VerifyWebhook validates the gateway signature on an incoming event.
func (c *Client) VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, c.cfg.WebhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("verify webhook signature: %w", err)
	}
	return event, nil
}
