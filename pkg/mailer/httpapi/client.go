package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rjcompany/nfmailer/pkg/mailer"
)

// Client is a mailer.Sender that posts messages to a remote Handler.
type Client struct {
	endpoint string
	http     *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// NewClient creates a client for the endpoint at baseURL + DefaultPath.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + DefaultPath,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send implements mailer.Sender. Only the first recipient is transmitted.
func (c *Client) Send(ctx context.Context, email *mailer.Email) (string, error) {
	if len(email.To) == 0 {
		return "", mailer.ErrNoRecipient
	}

	body, err := json.Marshal(Request{
		To:          email.To[0],
		Subject:     email.Subject,
		Text:        email.Text,
		HTML:        email.HTML,
		Attachments: email.Attachments,
	})
	if err != nil {
		return "", fmt.Errorf("httpapi: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("httpapi: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("httpapi: %w", err)
	}
	defer resp.Body.Close()

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: status %d: undecodable response: %v", ErrRemote, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !out.Success {
		msg := out.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrRemote, resp.StatusCode, msg)
	}

	return out.MessageID, nil
}

var _ mailer.Sender = (*Client)(nil)
