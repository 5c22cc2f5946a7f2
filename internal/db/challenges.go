package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cytutor/backend/internal/model"
	"github.com/cytutor/backend/internal/service"
)

const challengeColumns = `c.id, c.name, c.category, c.difficulty, c.description, c.points, c.docker_image, c.port, c.is_active, c.created_at, c.updated_at`

func challengeDest(c *model.Challenge) []any {
	return []any{
		&c.ID,
		&c.Name,
		&c.Category,
		&c.Difficulty,
		&c.Description,
		&c.Points,
		&c.DockerImage,
		&c.Port,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
}

// challengeWhere builds the shared filter for the list and count queries.
// Placeholders start at $next.
func challengeWhere(filter model.ChallengeFilter, next int) (string, []any) {
	clauses := []string{"c.is_active = true"}
	var args []any
	if filter.Category != "" {
		clauses = append(clauses, fmt.Sprintf("c.category = $%d", next))
		args = append(args, filter.Category)
		next++
	}
	if filter.Difficulty != "" {
		clauses = append(clauses, fmt.Sprintf("c.difficulty = $%d", next))
		args = append(args, filter.Difficulty)
	}
	return strings.Join(clauses, " AND "), args
}

func buildChallengeListQuery(filter model.ChallengeFilter) (string, []any) {
	where, filterArgs := challengeWhere(filter, 2)
	args := append([]any{filter.UserID}, filterArgs...)
	limitIdx := len(args) + 1
	query := fmt.Sprintf(`
		SELECT %s, (up.id IS NOT NULL) AS solved
		FROM challenges c
		LEFT JOIN user_progress up ON c.id = up.challenge_id AND up.user_id = $1
		WHERE %s
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $%d OFFSET $%d
	`, challengeColumns, where, limitIdx, limitIdx+1)
	args = append(args, filter.Limit, filter.Offset())
	return query, args
}

func buildChallengeCountQuery(filter model.ChallengeFilter) (string, []any) {
	where, args := challengeWhere(filter, 1)
	return `SELECT COUNT(*) FROM challenges c WHERE ` + where, args
}

func (db *Postgres) ListChallenges(ctx context.Context, filter model.ChallengeFilter) ([]model.ChallengeSummary, int64, error) {
	query, args := buildChallengeListQuery(filter)
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	challenges := []model.ChallengeSummary{}
	for rows.Next() {
		var item model.ChallengeSummary
		if err := rows.Scan(append(challengeDest(&item.Challenge), &item.Solved)...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs := buildChallengeCountQuery(filter)
	var total int64
	if err := db.Pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count challenges: %w", err)
	}
	return challenges, total, nil
}

func (db *Postgres) GetChallengeDetail(ctx context.Context, userID, challengeID int64) (*model.ChallengeDetail, error) {
	query := `
		SELECT ` + challengeColumns + `,
			(up.id IS NOT NULL) AS solved, up.solved_at, up.attempts, up.hints_used
		FROM challenges c
		LEFT JOIN user_progress up ON c.id = up.challenge_id AND up.user_id = $1
		WHERE c.id = $2 AND c.is_active = true
	`
	var detail model.ChallengeDetail
	dest := append(challengeDest(&detail.Challenge), &detail.Solved, &detail.SolvedAt, &detail.Attempts, &detail.HintsUsed)
	if err := db.Pool.QueryRow(ctx, query, userID, challengeID).Scan(dest...); err != nil {
		if IsNoRows(err) {
			return nil, service.ErrChallengeNotFound
		}
		return nil, err
	}
	return &detail, nil
}

func (db *Postgres) GetChallengeSecret(ctx context.Context, challengeID int64) (*model.ChallengeSecret, error) {
	query := `SELECT id, name, flag, points FROM challenges WHERE id = $1 AND is_active = true`
	var secret model.ChallengeSecret
	if err := db.Pool.QueryRow(ctx, query, challengeID).Scan(&secret.ID, &secret.Name, &secret.Flag, &secret.Points); err != nil {
		if IsNoRows(err) {
			return nil, service.ErrChallengeNotFound
		}
		return nil, err
	}
	return &secret, nil
}

func (db *Postgres) HasSolved(ctx context.Context, userID, challengeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_progress WHERE user_id = $1 AND challenge_id = $2)`
	var solved bool
	if err := db.Pool.QueryRow(ctx, query, userID, challengeID).Scan(&solved); err != nil {
		return false, err
	}
	return solved, nil
}

// RecordSolve inserts the progress row; the (user_id, challenge_id) UNIQUE
// constraint turns a concurrent duplicate into ErrAlreadySolved.
func (db *Postgres) RecordSolve(ctx context.Context, userID, challengeID int64) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO user_progress (user_id, challenge_id, solved_at)
		VALUES ($1, $2, NOW())
	`, userID, challengeID)
	if IsUniqueViolation(err) {
		return service.ErrAlreadySolved
	}
	return err
}

func (db *Postgres) GetProgress(ctx context.Context, userID int64, recentLimit int) (*model.ProgressResponse, error) {
	progress := &model.ProgressResponse{}

	if err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(up.id), COALESCE(SUM(c.points), 0), COUNT(DISTINCT c.category)
		FROM user_progress up
		JOIN challenges c ON up.challenge_id = c.id
		WHERE up.user_id = $1
	`, userID).Scan(
		&progress.Overall.TotalSolved,
		&progress.Overall.TotalPoints,
		&progress.Overall.CategoriesCompleted,
	); err != nil {
		return nil, fmt.Errorf("failed to query overall progress: %w", err)
	}

	categories, err := db.Pool.Query(ctx, `
		SELECT c.category,
			COUNT(c.id),
			COUNT(up.id),
			COALESCE(SUM(CASE WHEN up.id IS NOT NULL THEN c.points ELSE 0 END), 0)
		FROM challenges c
		LEFT JOIN user_progress up ON c.id = up.challenge_id AND up.user_id = $1
		WHERE c.is_active = true
		GROUP BY c.category
		ORDER BY c.category
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category progress: %w", err)
	}
	progress.Categories, err = pgx.CollectRows(categories, func(row pgx.CollectableRow) (model.CategoryProgress, error) {
		var cp model.CategoryProgress
		err := row.Scan(&cp.Category, &cp.TotalChallenges, &cp.SolvedChallenges, &cp.PointsEarned)
		return cp, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan category progress: %w", err)
	}

	recent, err := db.Pool.Query(ctx, `
		SELECT c.name, c.category, c.difficulty, c.points, up.solved_at
		FROM user_progress up
		JOIN challenges c ON up.challenge_id = c.id
		WHERE up.user_id = $1
		ORDER BY up.solved_at DESC
		LIMIT $2
	`, userID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent solves: %w", err)
	}
	progress.RecentSolves, err = pgx.CollectRows(recent, func(row pgx.CollectableRow) (model.RecentSolve, error) {
		var rs model.RecentSolve
		err := row.Scan(&rs.Name, &rs.Category, &rs.Difficulty, &rs.Points, &rs.SolvedAt)
		return rs, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan recent solves: %w", err)
	}

	return progress, nil
}

func (db *Postgres) CreateChallenge(ctx context.Context, req model.CreateChallengeRequest) (*model.Challenge, error) {
	query := `
		INSERT INTO challenges AS c (name, category, difficulty, description, flag, points, docker_image, port)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + challengeColumns
	var challenge model.Challenge
	err := db.Pool.QueryRow(ctx, query,
		req.Name,
		req.Category,
		req.Difficulty,
		req.Description,
		req.Flag,
		req.Points,
		req.DockerImage,
		req.Port,
	).Scan(challengeDest(&challenge)...)
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// UpdateChallenge keeps every column whose request field is nil.
func (db *Postgres) UpdateChallenge(ctx context.Context, challengeID int64, req model.UpdateChallengeRequest) (*model.Challenge, error) {
	query := `
		UPDATE challenges AS c
		SET name = COALESCE($1, c.name),
			category = COALESCE($2, c.category),
			difficulty = COALESCE($3, c.difficulty),
			description = COALESCE($4, c.description),
			flag = COALESCE($5, c.flag),
			points = COALESCE($6, c.points),
			docker_image = COALESCE($7, c.docker_image),
			port = COALESCE($8, c.port),
			is_active = COALESCE($9, c.is_active),
			updated_at = NOW()
		WHERE c.id = $10
		RETURNING ` + challengeColumns
	var challenge model.Challenge
	err := db.Pool.QueryRow(ctx, query,
		req.Name,
		req.Category,
		req.Difficulty,
		req.Description,
		req.Flag,
		req.Points,
		req.DockerImage,
		req.Port,
		req.IsActive,
		challengeID,
	).Scan(challengeDest(&challenge)...)
	if err != nil {
		if IsNoRows(err) {
			return nil, service.ErrChallengeNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

var _ service.ChallengeStore = (*Postgres)(nil)
