// Package cache provides a generic key-value Cache with in-memory and Redis
// implementations.
//
// The dispatcher keeps per-folder recipient overrides here: memory for a
// single process, Redis when several processes (HTTP server, CLI) must see
// the same edits.
//
// # Interface
//
//   - Get(ctx, key) (V, error): retrieve a value, ErrNotFound when absent
//   - Set(ctx, key, value, ttl) error: store a value with TTL
//   - Delete(ctx, key) error: remove a key
//   - Entries(ctx) (map[string]V, error): snapshot all live entries
//   - Clear(ctx) error: remove all entries
//   - Close() error: release resources
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL (never, unless WithDefaultTTL)
//   - Negative: item never expires
//
// # In-Memory Cache
//
//	c := cache.NewMemory[string](cache.WithCleanupInterval(30 * time.Second))
//	defer c.Close()
//
// # Redis Cache
//
// Values are serialized with a Marshaler (JSON by default). Use WithPrefix to
// namespace keys; Clear and Entries then only touch that namespace:
//
//	c := cache.NewRedis[string](client, nil, cache.WithPrefix("nfmailer:overrides"))
//
// # Errors
//
//   - ErrNotFound: key missing or expired
//   - ErrClosed: operation on a closed in-memory cache
//   - ErrMarshal, ErrUnmarshal: serialization failures
package cache
