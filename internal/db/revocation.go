package db

import (
	"context"
	"time"

	"github.com/cytutor/backend/internal/service"
)

// Revoke blacklists a token hash until expiresAt. Revoking twice is a no-op.
func (db *Postgres) Revoke(ctx context.Context, accountID int64, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (token_hash) DO NOTHING
	`
	_, err := db.Pool.Exec(ctx, query, accountID, tokenHash, expiresAt)
	return err
}

// IsRevoked only considers records whose copied expiry has not passed.
func (db *Postgres) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM revoked_tokens
			WHERE token_hash = $1 AND expires_at > NOW()
		)
	`
	var revoked bool
	if err := db.Pool.QueryRow(ctx, query, tokenHash).Scan(&revoked); err != nil {
		return false, err
	}
	return revoked, nil
}

// PruneExpired removes records for tokens that have expired on their own.
func (db *Postgres) PruneExpired(ctx context.Context) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ service.RevocationStore = (*Postgres)(nil)
