package mailer

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// EncodingBase64 marks attachment content as standard base64.
const EncodingBase64 = "base64"

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email represents a fully-prepared email message ready for sending.
type Email struct {
	Headers     map[string]string // Custom headers
	Subject     string            // Email subject
	HTML        string            // HTML body content
	Text        string            // Plain text alternative
	From        string            // Override default sender (if provider allows)
	ReplyTo     string            // Reply-to address
	To          []string          // Recipients (at least one required)
	Attachments []Attachment      // File attachments
}

// Attachment represents an email attachment in transport form.
type Attachment struct {
	Filename    string `json:"filename"`              // Display name for the attachment
	Content     string `json:"content"`               // Encoded file content
	Encoding    string `json:"encoding,omitempty"`    // "base64" or empty for raw text
	ContentType string `json:"contentType,omitempty"` // MIME type (e.g., "application/pdf")
}

// NewAttachment base64-encodes data into an Attachment.
func NewAttachment(filename, contentType string, data []byte) Attachment {
	return Attachment{
		Filename:    filename,
		Content:     base64.StdEncoding.EncodeToString(data),
		Encoding:    EncodingBase64,
		ContentType: contentType,
	}
}

// Bytes decodes the attachment content.
func (a Attachment) Bytes() ([]byte, error) {
	switch a.Encoding {
	case EncodingBase64:
		data, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return nil, errors.Join(ErrInvalidAttachment, fmt.Errorf("%s: %w", a.Filename, err))
		}
		return data, nil
	case "":
		return []byte(a.Content), nil
	default:
		return nil, fmt.Errorf("%w: %s: unsupported encoding %q", ErrInvalidAttachment, a.Filename, a.Encoding)
	}
}

// DecodeAttachments decodes every attachment, failing on the first invalid one.
func DecodeAttachments(attachments []Attachment) ([][]byte, error) {
	out := make([][]byte, len(attachments))
	for i, a := range attachments {
		data, err := a.Bytes()
		if err != nil {
			return nil, err
		}
		out[i] = data
	}
	return out, nil
}
