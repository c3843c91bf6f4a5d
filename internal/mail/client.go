package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"lifecourse/api/internal/config"
)

// Message is one outbound email. It travels through the mail stream as
// flat string fields, so everything here must stay string-typed.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"textBody"`
	HTMLBody string `json:"htmlBody"`
}

// Client delivers messages through an HTTP mail provider.
type Client struct {
	serverToken string
	fromEmail   string
	httpClient  *http.Client
}

func NewClient(cfg config.MailConfig) *Client {
	return &Client{
		serverToken: cfg.ServerToken,
		fromEmail:   cfg.FromEmail,
		httpClient:  http.DefaultClient,
	}
}

// Configured reports whether a provider token is set; unconfigured
// clients log-and-drop instead of failing deliveries.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type providerPayload struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	TextBody string `json:"TextBody"`
	HTMLBody string `json:"HtmlBody,omitempty"`
}

func (c *Client) Send(ctx context.Context, msg Message) error {
	if !c.Configured() {
		return fmt.Errorf("mail client not configured: missing server token")
	}

	payload := providerPayload{
		From:     c.fromEmail,
		To:       msg.To,
		Subject:  msg.Subject,
		TextBody: msg.TextBody,
		HTMLBody: msg.HTMLBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.postmarkapp.com/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail provider returned %d", resp.StatusCode)
	}
	return nil
}
