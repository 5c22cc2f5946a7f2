// Package revocation holds the token blacklist backends that sit beside
// the Postgres store: a Redis store, an in-process cache and the pruner.
package revocation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cytutor/backend/internal/config"
	"github.com/cytutor/backend/internal/service"
)

const keyPrefix = "revoked:"

// NewRedisClient connects to Redis and pings it before returning.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("revocation: redis ping: %w", err)
	}
	return client, nil
}

// RedisStore keeps one key per revoked token; the key TTL is the token's
// remaining lifetime, so expired entries disappear on their own.
type RedisStore struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func redisKey(tokenHash string) string {
	return keyPrefix + tokenHash
}

func (s *RedisStore) Revoke(ctx context.Context, accountID int64, tokenHash string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		// already unusable, nothing to remember
		return nil
	}
	if err := s.client.SetNX(ctx, redisKey(tokenHash), strconv.FormatInt(accountID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("revocation: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := s.client.Exists(ctx, redisKey(tokenHash)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation: redis exists: %w", err)
	}
	return n > 0, nil
}

var _ service.RevocationStore = (*RedisStore)(nil)
