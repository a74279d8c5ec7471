package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"loanflow-backend/internal/config"
)

// WebhookPushChannel posts push notifications to an external push gateway.
// With no endpoint configured the channel is disabled and Send is a no-op,
// so environments without a gateway run silently.
type WebhookPushChannel struct {
	endpoint string
	apiKey   string
	client   *http.Client
	enabled  bool
}

// NewWebhookPushChannel creates a new webhook push channel
func NewWebhookPushChannel(cfg config.PushConfig) *WebhookPushChannel {
	return &WebhookPushChannel{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: 10 * time.Second},
		enabled:  cfg.Endpoint != "",
	}
}

// IsEnabled checks if push delivery is enabled
func (c *WebhookPushChannel) IsEnabled() bool {
	return c.enabled
}

type pushPayload struct {
	UserID uint              `json:"user_id"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// Send posts one notification to the gateway
func (c *WebhookPushChannel) Send(ctx context.Context, userID uint, title, body string, data map[string]string) error {
	if !c.enabled {
		return nil
	}

	payload, err := json.Marshal(pushPayload{
		UserID: userID,
		Title:  title,
		Body:   body,
		Data:   data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}
	return nil
}
