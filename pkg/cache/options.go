package cache

import "time"

// Option configures a cache backend.
type Option func(*options)

type options struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	prefix          string
}

func defaultOptions() *options {
	return &options{
		defaultTTL:      -1,
		cleanupInterval: time.Minute,
	}
}

// WithDefaultTTL sets the expiration used when Set is called with a zero TTL.
// Default: never expires.
func WithDefaultTTL(d time.Duration) Option {
	return func(o *options) {
		o.defaultTTL = d
	}
}

// WithCleanupInterval sets how often the in-memory janitor removes expired
// entries. Zero disables the janitor. Ignored by Redis.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		o.cleanupInterval = d
	}
}

// WithPrefix namespaces Redis keys as "{prefix}:{key}". Ignored by Memory.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// expiry resolves ttl against the default and returns the absolute
// expiration time; the zero time means never.
func (o *options) expiry(ttl time.Duration, now time.Time) time.Time {
	if ttl == 0 {
		ttl = o.defaultTTL
	}
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
