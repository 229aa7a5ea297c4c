package recipient

import "errors"

var (
	// ErrStore is returned when the override store cannot be read or written.
	ErrStore = errors.New("recipient: override store failure")

	// ErrInvalidFile is returned when an overrides file cannot be parsed.
	ErrInvalidFile = errors.New("recipient: invalid overrides file")

	// ErrInvalidAddress is returned by Override.Validate.
	ErrInvalidAddress = errors.New("recipient: invalid override address")
)
