package revocation

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/cytutor/backend/internal/service"
)

// CachedStore fronts another RevocationStore with an expiring LRU.
// Only positive answers are cached: a miss always reaches the backend, so a
// revocation written by another instance is seen on the next request.
type CachedStore struct {
	next  service.RevocationStore
	cache *lru.LRU[string, time.Time]
	now   func() time.Time
}

func NewCachedStore(next service.RevocationStore, size int, ttl time.Duration) *CachedStore {
	return &CachedStore{
		next:  next,
		cache: lru.NewLRU[string, time.Time](size, nil, ttl),
		now:   time.Now,
	}
}

func (s *CachedStore) Revoke(ctx context.Context, accountID int64, tokenHash string, expiresAt time.Time) error {
	if err := s.next.Revoke(ctx, accountID, tokenHash, expiresAt); err != nil {
		return err
	}
	s.cache.Add(tokenHash, expiresAt)
	return nil
}

func (s *CachedStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	if expiresAt, ok := s.cache.Get(tokenHash); ok {
		// zero expiry means the entry came from a backend hit
		if expiresAt.IsZero() || s.now().Before(expiresAt) {
			return true, nil
		}
		s.cache.Remove(tokenHash)
	}

	revoked, err := s.next.IsRevoked(ctx, tokenHash)
	if err != nil {
		return false, err
	}
	if revoked {
		s.cache.Add(tokenHash, time.Time{})
	}
	return revoked, nil
}

// Len reports the number of cached entries.
func (s *CachedStore) Len() int {
	return s.cache.Len()
}

var _ service.RevocationStore = (*CachedStore)(nil)
