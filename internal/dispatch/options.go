package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/rjcompany/nfmailer/pkg/attachment"
	"github.com/rjcompany/nfmailer/pkg/recipient"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPauseMode selects the Pause behavior. Default is PauseReset.
func WithPauseMode(m PauseMode) Option {
	return func(e *Engine) {
		e.pauseMode = m
	}
}

// WithDelay sets a fixed wait between folders. Default is no wait.
func WithDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithManualStep disables the driver goroutine. Runs only advance through
// Step or Run.
func WithManualStep() Option {
	return func(e *Engine) {
		e.manual = true
	}
}

// WithContext sets the context driver goroutines run on.
// Canceling it stops any active driver after its in-flight step.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) {
		if ctx != nil {
			e.baseCtx = ctx
		}
	}
}

// WithFallbackSubject sets the subject template used when the draft subject
// renders empty.
func WithFallbackSubject(s string) Option {
	return func(e *Engine) {
		e.fallbackSubject = s
	}
}

// WithBuilder sets the attachment builder.
func WithBuilder(b *attachment.Builder) Option {
	return func(e *Engine) {
		if b != nil {
			e.builder = b
		}
	}
}

// WithStore sets the override store. Default is an in-memory store.
func WithStore(s recipient.Store) Option {
	return func(e *Engine) {
		if s != nil {
			e.store = s
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
