package httpapi

import (
	"errors"

	"github.com/rjcompany/nfmailer/pkg/mailer"
)

// DefaultPath is the conventional mount point of Handler.
const DefaultPath = "/api/send-email"

// maxBodySize caps request bodies; attachments are inlined as base64.
const maxBodySize = 32 << 20

// ErrRemote is returned by Client when the endpoint reports a failure.
var ErrRemote = errors.New("httpapi: remote send failed")

// Request is the wire form of a message.
type Request struct {
	To          string              `json:"to"`
	Subject     string              `json:"subject,omitempty"`
	Text        string              `json:"text,omitempty"`
	HTML        string              `json:"html,omitempty"`
	Attachments []mailer.Attachment `json:"attachments,omitempty"`
}

// Response is the wire form of a send result.
type Response struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}
