package cache

import "errors"

var (
	// ErrNotFound means the key is absent or expired. Callers treat it as
	// "no value", not as a failure.
	ErrNotFound = errors.New("cache: entry not found")
	// ErrClosed is returned by writes after Close.
	ErrClosed = errors.New("cache: closed")
	// ErrMarshal and ErrUnmarshal wrap codec failures of the Redis cache.
	ErrMarshal   = errors.New("cache: failed to marshal value")
	ErrUnmarshal = errors.New("cache: failed to unmarshal value")
)
