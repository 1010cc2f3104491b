package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupClient(t *testing.T) *Client {
	mr := miniredis.RunT(t)
	client := &Client{Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSetGetDelete(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "page:abc", `{"slug":"abc"}`, 0))

	val, err := client.Get(ctx, "page:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"slug":"abc"}`, val)

	exists, err := client.Exists(ctx, "page:abc")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, client.Delete(ctx, "page:abc"))

	_, err = client.Get(ctx, "page:abc")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestSetWithExpiration(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "temp", "v", time.Minute))

	ttl, err := client.Redis.TTL(ctx, "temp").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestKeys(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "page:a", "1", 0))
	require.NoError(t, client.Set(ctx, "page:b", "2", 0))
	require.NoError(t, client.Set(ctx, "other:c", "3", 0))

	keys, err := client.Keys(ctx, "page:*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"page:a", "page:b"}, keys)
}
