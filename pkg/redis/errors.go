package redis

import "errors"

var (
	// ErrEmptyConnectionURL is returned by Open when REDIS_URL is unset.
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")
	// ErrFailedToParseURL wraps a malformed or non-redis:// URL.
	ErrFailedToParseURL = errors.New("redis: failed to parse connection URL")
	// ErrConnectionFailed is returned once every retry attempt has failed.
	ErrConnectionFailed = errors.New("redis: failed to establish connection")
	// ErrHealthcheckFailed is returned by the readiness check.
	ErrHealthcheckFailed = errors.New("redis: ping failed")
)
