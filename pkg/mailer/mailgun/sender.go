// Package mailgun delivers mail through the Mailgun HTTP API.
package mailgun

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/rjcompany/nfmailer/pkg/mailer"
)

// Sender implements mailer.Sender using the Mailgun API.
type Sender struct {
	client *mailgun.MailgunImpl
	config Config
}

// New creates a Mailgun sender. API key, domain and sender email are required.
func New(cfg Config) (*Sender, error) {
	if cfg.APIKey == "" || cfg.Domain == "" || cfg.SenderEmail == "" {
		return nil, fmt.Errorf("mailgun: %w: api key, domain and sender email are required", mailer.ErrNotConfigured)
	}

	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	switch {
	case cfg.APIBase != "":
		mg.SetAPIBase(cfg.APIBase)
	case cfg.Region == "eu":
		mg.SetAPIBase(apiBaseEU)
	}

	return &Sender{client: mg, config: cfg}, nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (string, error) {
	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}

	m := s.client.NewMessage(from, email.Subject, email.Text, email.To...)
	if email.HTML != "" {
		m.SetHtml(email.HTML)
	}
	if email.ReplyTo != "" {
		m.SetReplyTo(email.ReplyTo)
	}
	for k, v := range email.Headers {
		m.AddHeader(k, v)
	}
	for _, a := range email.Attachments {
		data, err := a.Bytes()
		if err != nil {
			return "", err
		}
		m.AddBufferAttachment(a.Filename, data)
	}

	_, id, err := s.client.Send(ctx, m)
	if err != nil {
		return "", fmt.Errorf("mailgun: failed to send email: %w", err)
	}
	return id, nil
}

var _ mailer.Sender = (*Sender)(nil)
