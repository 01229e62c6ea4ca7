package events

import (
	"context"
	"log/slog"

	"github.com/mmynk/consoleatm/internal/models"
)

// LogListener writes every event to a structured logger.
type LogListener struct {
	logger *slog.Logger
}

// NewLogListener creates a listener logging to logger.
func NewLogListener(logger *slog.Logger) *LogListener {
	return &LogListener{logger: logger}
}

// Notify logs the event at INFO on success and WARN on failure.
func (l *LogListener) Notify(ctx context.Context, event models.Event) error {
	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}

	attrs := []any{
		"kind", event.Kind,
		"session_id", event.SessionID,
		"account_id", event.AccountID,
		"success", event.Success,
	}
	if event.Amount.Valid {
		attrs = append(attrs, "amount", event.Amount.Decimal.String())
	}
	if event.Counterparty != "" {
		attrs = append(attrs, "counterparty", event.Counterparty)
	}

	l.logger.Log(ctx, level, event.Status, attrs...)
	return nil
}
