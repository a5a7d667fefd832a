// Package notify delivers operational notifications raised by background
// work, starting with contract expiry. Delivery is best-effort: callers log
// failures and move on.
package notify

import (
	"context"
	"errors"
	"time"
)

// Notification is one event worth telling a human about.
type Notification struct {
	Type       string            `json:"type"`
	TenantID   string            `json:"tenant_id"`
	Subject    string            `json:"subject"`
	Body       string            `json:"body,omitempty"`
	Meta       map[string]string `json:"meta,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Notifier delivers notifications to one channel.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Multi fans one notification out to every configured channel. A failing
// channel does not stop the others.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
