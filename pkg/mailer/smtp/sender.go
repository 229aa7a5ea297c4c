// Package smtp delivers mail over SMTP with STARTTLS using go-simple-mail.
package smtp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	mail "github.com/xhit/go-simple-mail/v2"

	"github.com/rjcompany/nfmailer/pkg/mailer"
)

// Sender implements mailer.Sender over SMTP.
type Sender struct {
	config  Config
	deliver func(*mail.Email) error
}

// New creates an SMTP sender. Username and password are required.
func New(cfg Config) (*Sender, error) {
	cfg.applyDefaults()
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("smtp: %w: EMAIL_USER and EMAIL_PASSWORD are required", mailer.ErrNotConfigured)
	}

	s := &Sender{config: cfg}
	s.deliver = s.dialAndSend
	return s, nil
}

// Address returns the authenticated sender address.
func (s *Sender) Address() string {
	return s.config.Username
}

// Send implements mailer.Sender. It returns the generated Message-ID.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	msg, id, err := s.buildMessage(email)
	if err != nil {
		return "", err
	}

	if err := s.deliver(msg); err != nil {
		return "", fmt.Errorf("smtp: failed to send email: %w", err)
	}
	return id, nil
}

func (s *Sender) buildMessage(email *mailer.Email) (*mail.Email, string, error) {
	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.Username)
	}

	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.domain())

	msg := mail.NewMSG()
	msg.SetFrom(from).
		AddTo(email.To...).
		SetSubject(email.Subject)
	if email.ReplyTo != "" {
		msg.SetReplyTo(email.ReplyTo)
	}
	msg.AddHeader("Message-ID", id)
	for k, v := range email.Headers {
		msg.AddHeader(k, v)
	}

	msg.SetBody(mail.TextPlain, email.Text)
	if email.HTML != "" {
		msg.AddAlternative(mail.TextHTML, email.HTML)
	}

	for _, a := range email.Attachments {
		data, err := a.Bytes()
		if err != nil {
			return nil, "", err
		}
		msg.Attach(&mail.File{Name: a.Filename, MimeType: a.ContentType, Data: data})
	}

	if msg.Error != nil {
		return nil, "", fmt.Errorf("smtp: invalid message: %w", msg.Error)
	}
	return msg, id, nil
}

func (s *Sender) dialAndSend(msg *mail.Email) error {
	server := mail.NewSMTPClient()
	server.Host = s.config.Host
	server.Port = s.config.Port
	server.Username = s.config.Username
	server.Password = s.config.Password
	server.Encryption = mail.EncryptionSTARTTLS
	server.ConnectTimeout = s.config.ConnectTimeout
	server.SendTimeout = s.config.SendTimeout

	client, err := server.Connect()
	if err != nil {
		return err
	}
	defer client.Close()

	return msg.Send(client)
}

func (s *Sender) domain() string {
	if _, domain, ok := strings.Cut(s.config.Username, "@"); ok && domain != "" {
		return domain
	}
	return s.config.Host
}

var _ mailer.Sender = (*Sender)(nil)
