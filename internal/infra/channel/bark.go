// internal/infra/channel/bark.go
package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"subscription_reminder_bot/internal/domain/notification"
)

// BarkSender delivers reminders through a Bark push server
// (GET {server}/{deviceKey}/{title}/{body}).
type BarkSender struct {
	client *http.Client
}

func NewBarkSender() *BarkSender {
	return &BarkSender{client: &http.Client{Timeout: 10 * time.Second}}
}

type barkResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *BarkSender) Send(ctx context.Context, content notification.Content, cfg *notification.Config) error {
	bc := cfg.Bark
	if err := bc.Validate(); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/%s/%s/%s",
		strings.TrimRight(bc.ServerURL, "/"),
		url.PathEscape(bc.DeviceKey),
		url.PathEscape(content.Title),
		url.PathEscape(content.Body),
	)
	if bc.Sound != "" {
		endpoint += "?sound=" + url.QueryEscape(bc.Sound)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("bark: failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("bark: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bark: unexpected status %s", resp.Status)
	}
	var body barkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("bark: malformed response: %w", err)
	}
	if body.Code != 200 {
		return fmt.Errorf("bark: server rejected push: code %d, %s", body.Code, body.Message)
	}
	return nil
}
