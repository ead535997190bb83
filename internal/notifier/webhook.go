// Package notifier implements an optional HTTP webhook that receives
// each accepted signal. Delivery is best-effort.
package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/newthinker/chartsight/internal/core"
)

// Webhook posts accepted signals to a configured URL
type Webhook struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// NewWebhook creates a new Webhook notifier
func NewWebhook(url string, headers map[string]string) *Webhook {
	return &Webhook{
		url:     url,
		headers: headers,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *Webhook) Name() string { return "webhook" }

// Send posts a single accepted signal.
func (w *Webhook) Send(signal core.Signal) error {
	payload := map[string]any{
		"event":      "signal",
		"id":         signal.ID,
		"type":       signal.Type,
		"confidence": signal.Confidence,
		"timeframe":  signal.Timeframe,
		"validity":   signal.Validity,
		"reasoning":  signal.Reasoning,
		"timestamp":  signal.Timestamp.Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest("POST", w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: server returned %d", resp.StatusCode)
	}

	return nil
}
