package health

import "errors"

var (
	// ErrCheckFailed is returned by Run's Err when one or more checks fail.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout replaces a check error caused by the shared deadline.
	ErrCheckTimeout = errors.New("health: check timeout")
)
