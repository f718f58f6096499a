package notify

import (
	"context"
	"log/slog"
)

// Notifier fans a short message out to users of a school holding any of the
// given roles. Delivery is best-effort; callers treat a returned error as
// advisory and never fail the triggering operation on it.
type Notifier interface {
	Notify(ctx context.Context, schoolID string, roles []string, title, message string) error
}

// LogNotifier writes notifications to the structured log. It stands in when
// no delivery channel (email, push) is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, schoolID string, roles []string, title, message string) error {
	n.logger.InfoContext(ctx, "notification",
		"school_id", schoolID,
		"roles", roles,
		"title", title,
		"message", message,
	)
	return nil
}
