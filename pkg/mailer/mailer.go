package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rjcompany/nfmailer/pkg/logger"
)

// ProbeTemplate is the built-in template used by SendProbe.
const ProbeTemplate = "probe.md"

var lineBreaks = strings.NewReplacer("\r\n", "<br>", "\n", "<br>")

// Mailer validates and completes messages before handing them to a Sender.
// It implements Sender itself, so it can wrap any provider transparently.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
	logger   *slog.Logger
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithRenderer sets the template renderer. Defaults to the built-in templates.
func WithRenderer(r *Renderer) Option {
	return func(m *Mailer) { m.renderer = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a new Mailer around sender.
func New(sender Sender, cfg Config, opts ...Option) *Mailer {
	cfg.applyDefaults()
	m := &Mailer{
		sender: sender,
		config: cfg,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.renderer == nil {
		m.renderer = NewRenderer(Templates())
	}
	return m
}

// Send validates the email, fills in defaults and delivers it.
// An empty subject becomes Config.FallbackSubject and empty HTML is derived
// from the text body. The caller's Email is not modified.
func (m *Mailer) Send(ctx context.Context, email *Email) (string, error) {
	if email == nil || len(email.To) == 0 {
		return "", ErrNoRecipient
	}
	for _, to := range email.To {
		if !strings.Contains(to, "@") {
			return "", fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
		}
	}

	msg := *email
	if msg.Subject == "" {
		msg.Subject = m.config.FallbackSubject
	}
	if msg.HTML == "" && msg.Text != "" {
		msg.HTML = lineBreaks.Replace(msg.Text)
	}

	id, err := m.sender.Send(ctx, &msg)
	if err != nil {
		m.logger.WarnContext(ctx, "email send failed",
			slog.Any("to", msg.To),
			slog.Int("attachments", len(msg.Attachments)),
			slog.String("error", err.Error()),
		)
		return "", errors.Join(ErrSendFailed, err)
	}

	m.logger.DebugContext(ctx, "email sent",
		slog.Any("to", msg.To),
		slog.String("message_id", id),
		slog.Int("attachments", len(msg.Attachments)),
	)
	return id, nil
}

// SendParams contains parameters for sending a templated email.
type SendParams struct {
	To       string // Single recipient
	Template string // Template filename (e.g., "probe.md")
	Data     any    // Template data

	// Optional overrides
	Subject     string       // Override template subject
	Layout      string       // Override default layout
	From        string       // Override default sender
	Attachments []Attachment // File attachments
}

// SendTemplate renders a markdown template and sends it.
// Subject resolution: params.Subject > template frontmatter > config fallback.
func (m *Mailer) SendTemplate(ctx context.Context, params SendParams) (string, error) {
	if params.To == "" {
		return "", ErrNoRecipient
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	result, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return "", errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		subject = result.Subject
	}

	return m.Send(ctx, &Email{
		To:          []string{params.To},
		From:        params.From,
		Subject:     subject,
		HTML:        result.HTML,
		Text:        result.Text,
		Attachments: params.Attachments,
	})
}

// ProbeData is the data passed to the probe template.
type ProbeData struct {
	SentAt string
}

// SendProbe sends the built-in test message to `to`.
func (m *Mailer) SendProbe(ctx context.Context, to string, now time.Time) (string, error) {
	return m.SendTemplate(ctx, SendParams{
		To:       to,
		Template: ProbeTemplate,
		Data:     ProbeData{SentAt: now.Format("02/01/2006 15:04:05")},
	})
}

var _ Sender = (*Mailer)(nil)
