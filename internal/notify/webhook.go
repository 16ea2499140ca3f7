// Package notify pushes search results back to a waiting client over an
// outbound webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/your-org/facepipe/internal/observability"
)

const defaultTimeout = 3 * time.Second

// DeliveryError reports a failed or rejected webhook call.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return "deliver notification: " + e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Webhook posts {socketId, people} JSON to a fixed URL with a short timeout.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type payload struct {
	SocketID string   `json:"socketId"`
	People   []string `json:"people"`
}

// Notify delivers the resolved people set for one correlation id. The
// response body is discarded; only the status is logged.
func (w *Webhook) Notify(ctx context.Context, socketID string, people []string) error {
	if people == nil {
		people = []string{}
	}
	body, err := json.Marshal(payload{SocketID: socketID, People: people})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return &DeliveryError{Err: err}
	}
	defer resp.Body.Close()

	slog.Info("notify target responded", "status", resp.StatusCode, "socket_id", socketID)
	if resp.StatusCode >= http.StatusBadRequest {
		return &DeliveryError{Err: fmt.Errorf("notify target returned status %d", resp.StatusCode)}
	}

	observability.NotificationsSent.Inc()
	return nil
}
