// Package mailer is the boundary between the dispatcher and the services
// that actually deliver email.
//
// # Architecture
//
//   - Sender: interface implemented by every provider (smtp, resend, mailgun, httpapi)
//   - Mailer: validating Sender wrapper that fills subject and HTML defaults
//   - Renderer: markdown templates with YAML frontmatter, used for the probe message
//
// # Usage
//
//	sender, err := smtp.New(smtp.Config{
//		Username: os.Getenv("EMAIL_USER"),
//		Password: os.Getenv("EMAIL_PASSWORD"),
//	})
//	if err != nil {
//		return err
//	}
//
//	m := mailer.New(sender, mailer.Config{FallbackSubject: "Notas Fiscais"})
//
//	id, err := m.Send(ctx, &mailer.Email{
//		To:          []string{"cliente@example.com"},
//		Subject:     "Notas Fiscais - ACME",
//		Text:        "Segue em anexo.",
//		Attachments: []mailer.Attachment{mailer.NewAttachment("nf.pdf", "application/pdf", data)},
//	})
//
// Attachments travel base64-encoded (Encoding "base64"); providers decode
// them with Attachment.Bytes.
//
// # Probe
//
// SendProbe renders the built-in "probe.md" template and sends it, which is
// how operators verify credentials before starting a batch.
//
// # Errors
//
//   - ErrNoRecipient: no recipient specified
//   - ErrInvalidRecipient: recipient without "@"
//   - ErrNotConfigured: provider credentials missing
//   - ErrInvalidAttachment: attachment content could not be decoded
//   - ErrTemplateNotFound, ErrLayoutNotFound, ErrRenderFailed, ErrInvalidFrontmatter: template problems
//   - ErrSendFailed: provider rejected the message or the network failed
package mailer
