package logger

import "log/slog"

// NewNope returns a logger that drops everything. Packages use it when the
// caller passes no logger.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
