package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrInvalidRecipient indicates a recipient address is malformed.
	ErrInvalidRecipient = errors.New("invalid recipient address")

	// ErrNotConfigured indicates the provider is missing credentials.
	ErrNotConfigured = errors.New("email provider is not configured")

	// ErrInvalidAttachment indicates attachment content could not be decoded.
	ErrInvalidAttachment = errors.New("invalid attachment")

	// ErrTemplateNotFound indicates the template file was not found.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("failed to render template")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("failed to send email")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
)
