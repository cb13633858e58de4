// internal/infra/channel/webhook.go
package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"subscription_reminder_bot/internal/domain/notification"
)

// WebhookSender POSTs the reminder as a small JSON document to a user-supplied
// URL. The payload shape is fixed; the receiving end adapts.
type WebhookSender struct {
	client *http.Client
}

func NewWebhookSender() *WebhookSender {
	return &WebhookSender{client: &http.Client{Timeout: 10 * time.Second}}
}

type webhookPayload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Timestamp int64  `json:"timestamp"`
}

func (s *WebhookSender) Send(ctx context.Context, content notification.Content, cfg *notification.Config) error {
	wc := cfg.Webhook
	if err := wc.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(webhookPayload{
		Title:     content.Title,
		Body:      content.Body,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("webhook: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wc.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("webhook: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: unexpected status %s", resp.Status)
	}
	return nil
}
