package logger

import (
	"context"
	"log/slog"
)

type runIDKey struct{}

// WithRunID stores a dispatch run ID in ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run ID stored in ctx, or "".
func RunID(ctx context.Context) string {
	v, _ := ctx.Value(runIDKey{}).(string)
	return v
}

// RunIDExtractor adds "run_id" to log entries made within a dispatch run.
func RunIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v := RunID(ctx); v != "" {
			return slog.String("run_id", v), true
		}
		return slog.Attr{}, false
	}
}
