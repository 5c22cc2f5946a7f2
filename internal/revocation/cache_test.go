package revocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cytutor/backend/internal/testutil"
)

func TestCachedStoreCachesPositiveAnswers(t *testing.T) {
	backend := testutil.NewMemoryStore()
	store := NewCachedStore(backend, 16, time.Minute)
	ctx := context.Background()

	require.NoError(t, backend.Revoke(ctx, 1, "hit", time.Now().Add(time.Hour)))

	for i := 0; i < 3; i++ {
		revoked, err := store.IsRevoked(ctx, "hit")
		require.NoError(t, err)
		assert.True(t, revoked)
	}
	assert.Equal(t, 1, backend.RevocationChecks)
	assert.Equal(t, 1, store.Len())
}

func TestCachedStoreDoesNotCacheMisses(t *testing.T) {
	backend := testutil.NewMemoryStore()
	store := NewCachedStore(backend, 16, time.Minute)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "late")
	require.NoError(t, err)
	assert.False(t, revoked)

	// revoked behind the cache's back, e.g. by another instance
	require.NoError(t, backend.Revoke(ctx, 1, "late", time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, "late")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 2, backend.RevocationChecks)
}

func TestCachedStoreRevokeWritesThrough(t *testing.T) {
	backend := testutil.NewMemoryStore()
	store := NewCachedStore(backend, 16, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, 1, "tok", time.Now().Add(time.Hour)))
	assert.Equal(t, 1, backend.RevokedCount())

	revoked, err := store.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 0, backend.RevocationChecks)
}

func TestCachedStoreHonorsTokenExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	backend := testutil.NewMemoryStore()
	backend.SetClock(func() time.Time { return now })
	store := NewCachedStore(backend, 16, time.Hour)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, 1, "tok", now.Add(time.Minute)))

	now = now.Add(2 * time.Minute)
	revoked, err := store.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Equal(t, 1, backend.RevocationChecks)
	assert.Equal(t, 0, store.Len())
}

func TestCachedStorePropagatesErrors(t *testing.T) {
	backend := testutil.NewMemoryStore()
	backend.Err = errors.New("db down")
	store := NewCachedStore(backend, 16, time.Minute)
	ctx := context.Background()

	_, err := store.IsRevoked(ctx, "x")
	assert.EqualError(t, err, "db down")

	assert.Error(t, store.Revoke(ctx, 1, "x", time.Now().Add(time.Hour)))
	assert.Equal(t, 0, store.Len())
}
