// Package redis opens go-redis clients with retry, health checking and a
// shutdown hook.
//
// It backs the shared recipient override store when REDIS_URL is set:
//
//	client, err := redis.Open(ctx, cfg.Redis.URL, cfg.Redis.Options()...)
//	if err != nil {
//		return err
//	}
//	overrides := cache.NewRedis[recipient.Override](client, nil, cache.WithPrefix("nfmailer:overrides"))
//
// Healthcheck plugs into the readiness probe and Shutdown into the server's
// shutdown hooks.
package redis
