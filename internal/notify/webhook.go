package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"fieldpos/pkg/platform/circuit"
)

const (
	webhookTimeout   = 10 * time.Second
	webhookRetries   = 2
	webhookRetryWait = time.Second
)

// ErrWebhookUnavailable reports a notification dropped because the
// endpoint's circuit breaker is open.
var ErrWebhookUnavailable = errors.New("webhook endpoint unavailable")

// WebhookNotifier POSTs each notification as JSON to a configured endpoint.
// A circuit breaker sheds deliveries while the endpoint is down, so a dead
// webhook cannot stall the sweep loop on connect timeouts.
type WebhookNotifier struct {
	client  *resty.Client
	url     string
	breaker *circuit.Breaker
}

// NewWebhookNotifier builds a notifier for the given endpoint URL.
func NewWebhookNotifier(url string) *WebhookNotifier {
	client := resty.New().
		SetTimeout(webhookTimeout).
		SetRetryCount(webhookRetries).
		SetRetryWaitTime(webhookRetryWait).
		SetHeader("Content-Type", "application/json")
	return &WebhookNotifier{
		client:  client,
		url:     url,
		breaker: circuit.New("notify-webhook"),
	}
}

func (w *WebhookNotifier) Notify(ctx context.Context, n Notification) error {
	if !w.breaker.Allow() {
		return fmt.Errorf("notify webhook: %w", ErrWebhookUnavailable)
	}
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(n).
		Post(w.url)
	if err != nil {
		w.breaker.Failure()
		return fmt.Errorf("notify webhook: %w", err)
	}
	if resp.IsError() {
		w.breaker.Failure()
		return fmt.Errorf("notify webhook: endpoint returned %d", resp.StatusCode())
	}
	w.breaker.Success()
	return nil
}
