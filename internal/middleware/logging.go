// Package middleware wraps the session controller with cross-cutting behavior.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/consoleatm/internal/session"
)

// Controller is the surface the console drives.
type Controller interface {
	Authenticate(ctx context.Context, accountID, credential string) session.Outcome
	Handle(ctx context.Context, req session.Request) session.Outcome
}

// LoggingController logs every call that passes through it.
// It logs the operation, outcome kind, duration and any error.
type LoggingController struct {
	next   Controller
	logger *slog.Logger
}

// Logging returns next wrapped with call logging.
func Logging(next Controller, logger *slog.Logger) *LoggingController {
	return &LoggingController{next: next, logger: logger}
}

// Authenticate logs the attempt without the credential.
func (l *LoggingController) Authenticate(ctx context.Context, accountID, credential string) session.Outcome {
	start := time.Now()
	out := l.next.Authenticate(ctx, accountID, credential)
	l.log(ctx, "authenticate", out, time.Since(start), "account_id", accountID)
	return out
}

// Handle logs one menu operation.
func (l *LoggingController) Handle(ctx context.Context, req session.Request) session.Outcome {
	start := time.Now()
	out := l.next.Handle(ctx, req)

	attrs := []any{}
	if req.Selector == session.SelectorTransfer {
		attrs = append(attrs, "destination", req.Destination)
	}
	l.log(ctx, req.Selector.String(), out, time.Since(start), attrs...)
	return out
}

func (l *LoggingController) log(ctx context.Context, operation string, out session.Outcome, d time.Duration, extra ...any) {
	attrs := append([]any{
		"operation", operation,
		"kind", out.Kind.String(),
		"duration_ms", d.Milliseconds(),
	}, extra...)

	if out.Success {
		l.logger.InfoContext(ctx, "Operation ok", attrs...)
		return
	}
	attrs = append(attrs, "error", out.Err)
	l.logger.WarnContext(ctx, "Operation rejected", attrs...)
}
