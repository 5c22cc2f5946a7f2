package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cytutor/backend/internal/model"
	"github.com/cytutor/backend/internal/service"
)

const accountColumns = `id, username, email, first_name, last_name, role, is_active, created_at, updated_at`

func scanAccount(row pgx.Row, extra ...any) (*model.Account, error) {
	var account model.Account
	dest := []any{
		&account.ID,
		&account.Username,
		&account.Email,
		&account.FirstName,
		&account.LastName,
		&account.Role,
		&account.IsActive,
		&account.CreatedAt,
		&account.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if IsNoRows(err) {
			return nil, service.ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAccountByLogin matches the username exactly or the email case-insensitively.
func (db *Postgres) FindAccountByLogin(ctx context.Context, login string) (*model.AccountCredentials, error) {
	query := `
		SELECT ` + accountColumns + `, password_hash
		FROM users
		WHERE username = $1 OR email = lower($1)
		LIMIT 1
	`
	var hash string
	account, err := scanAccount(db.Pool.QueryRow(ctx, query, login), &hash)
	if err != nil {
		return nil, err
	}
	return &model.AccountCredentials{Account: *account, PasswordHash: hash}, nil
}

func (db *Postgres) GetAccountByID(ctx context.Context, id int64) (*model.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM users
		WHERE id = $1
	`
	return scanAccount(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) AccountExists(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	var exists bool
	if err := db.Pool.QueryRow(ctx, query, username, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CreateAccount relies on the users UNIQUE constraints; a violation is ErrUserExists.
func (db *Postgres) CreateAccount(ctx context.Context, params model.NewAccount) (*model.Account, error) {
	role := params.Role
	if role == "" {
		role = model.RoleStudent
	}
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + accountColumns
	account, err := scanAccount(db.Pool.QueryRow(ctx, query,
		params.Username,
		params.Email,
		params.PasswordHash,
		params.FirstName,
		params.LastName,
		role,
	))
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, service.ErrUserExists
		}
		return nil, err
	}
	return account, nil
}

func (db *Postgres) SetAccountActive(ctx context.Context, id int64, active bool) (*model.Account, error) {
	query := `
		UPDATE users
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + accountColumns
	return scanAccount(db.Pool.QueryRow(ctx, query, id, active))
}

func (db *Postgres) GetAccountStats(ctx context.Context, id int64) (model.AccountStats, error) {
	query := `
		SELECT COUNT(up.id), COALESCE(SUM(c.points), 0)
		FROM user_progress up
		LEFT JOIN challenges c ON up.challenge_id = c.id
		WHERE up.user_id = $1
	`
	var stats model.AccountStats
	if err := db.Pool.QueryRow(ctx, query, id).Scan(&stats.ChallengesSolved, &stats.TotalPoints); err != nil {
		return model.AccountStats{}, err
	}
	return stats, nil
}

var _ service.AccountStore = (*Postgres)(nil)
