package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// WebhookNotifier delivers notifications by POSTing them to an external
// gateway (e.g. a transactional email or SMS relay).
type WebhookNotifier struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewWebhookNotifier returns a notifier that posts to the given URL with the
// given API key.
func NewWebhookNotifier(apiKey, baseURL string) *WebhookNotifier {
	return &WebhookNotifier{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Send posts the notification to the gateway. Does not log the body, which
// contains the verification code.
func (c *WebhookNotifier) Send(ctx context.Context, to, head, body string) error {
	if c.APIKey == "" || c.BaseURL == "" {
		return fmt.Errorf("notify: webhook not configured")
	}
	payload := map[string]string{
		"to":   to,
		"head": head,
		"body": body,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.APIKey)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notify: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
