package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/riserlabs/hazard-feed/internal/domain"
)

// WebhookChannel POSTs alerts as JSON to an operator-provided endpoint, the
// integration point for chat rooms and paging services.
type WebhookChannel struct {
	url    string
	client *http.Client
}

// NewWebhookChannel creates the channel. An empty URL leaves it unconfigured.
func NewWebhookChannel(url string, timeout time.Duration) *WebhookChannel {
	return &WebhookChannel{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *WebhookChannel) Name() string { return "webhook" }

func (c *WebhookChannel) Send(ctx context.Context, a Alert) error {
	if c.url == "" {
		return domain.ErrNotConfigured
	}

	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("serialize alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.NewUpstreamError("webhook", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.NewUpstreamError("webhook", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return nil
}
