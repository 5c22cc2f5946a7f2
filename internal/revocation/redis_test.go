package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cytutor/backend/internal/config"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisStore(client)
}

func TestRedisStoreRevokeAndExpire(t *testing.T) {
	mr, store := newTestRedis(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, 7, "abc", time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	value, err := mr.Get("revoked:abc")
	require.NoError(t, err)
	assert.Equal(t, "7", value)
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL("revoked:abc").Seconds(), 5)

	mr.FastForward(2 * time.Hour)

	revoked, err = store.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisStoreRevokeTwiceKeepsFirst(t *testing.T) {
	mr, store := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, 1, "dup", time.Now().Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, 2, "dup", time.Now().Add(time.Hour)))

	value, err := mr.Get("revoked:dup")
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}

func TestRedisStoreSkipsExpiredTokens(t *testing.T) {
	mr, store := newTestRedis(t)

	require.NoError(t, store.Revoke(context.Background(), 1, "old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("revoked:old"))
}

func TestRedisStoreBackendError(t *testing.T) {
	mr, store := newTestRedis(t)
	mr.Close()

	_, err := store.IsRevoked(context.Background(), "abc")
	assert.Error(t, err)
	assert.Error(t, store.Revoke(context.Background(), 1, "abc", time.Now().Add(time.Hour)))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	mr.Close()
	_, err = NewRedisClient(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}
