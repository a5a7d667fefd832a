package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the structured log. It is always
// wired, so every notification leaves at least one trace even before a
// push channel exists.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	l.logger.InfoContext(ctx, "notification",
		"type", n.Type,
		"tenant_id", n.TenantID,
		"subject", n.Subject,
		"body", n.Body,
	)
	return nil
}
