//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/rjcompany/nfmailer/pkg/cache"
	"github.com/rjcompany/nfmailer/pkg/redis"
)

const testRedisURL = "redis://localhost:6379/0"

func newTestRedisClient(t *testing.T) goredis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = testRedisURL
	}

	client, err := redis.Open(context.Background(), url)
	require.NoError(t, err, "failed to connect to Redis")

	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedis_Roundtrip(t *testing.T) {
	ctx := context.Background()
	c := cache.NewRedis[override](newTestRedisClient(t), nil, cache.WithPrefix("test:"+t.Name()))
	t.Cleanup(func() { _ = c.Clear(ctx) })

	_, err := c.Get(ctx, "ACME")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Set(ctx, "ACME", override{Email: "a@acme.com", UseOverride: true}, 0))
	require.NoError(t, c.Set(ctx, "Globex", override{Email: "g@globex.com"}, 0))

	got, err := c.Get(ctx, "ACME")
	require.NoError(t, err)
	require.Equal(t, override{Email: "a@acme.com", UseOverride: true}, got)

	entries, err := c.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "g@globex.com", entries["Globex"].Email)

	require.NoError(t, c.Delete(ctx, "ACME"))
	require.NoError(t, c.Clear(ctx))

	entries, err = c.Entries(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}
