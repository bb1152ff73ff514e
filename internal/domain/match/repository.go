package match

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/pkg/database"
	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

// Repository defines match data access interface
type Repository interface {
	WithTx(tx *sqlx.Tx) Repository
	LockPair(ctx context.Context, a, b int64) error
	Upsert(ctx context.Context, m *UserMatch) error
	Get(ctx context.Context, userID, targetUserID int64) (*UserMatch, error)
	HasLiked(ctx context.Context, userID, targetUserID int64) (bool, error)
	SeenTargets(ctx context.Context, userID int64) ([]int64, error)
	ListMutual(ctx context.Context, userID int64) ([]*UserMatch, error)
	PurgeTarget(ctx context.Context, tx *sqlx.Tx, target relation.Target) (int64, error)
}

type repository struct {
	db sqlx.ExtContext
}

// NewRepository creates match repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sqlx.Tx) Repository {
	return &repository{db: tx}
}

// LockPair takes a transaction-scoped advisory lock on the unordered pair, so the two
// directions of a pair are recorded one after the other and a mutual like is never
// missed by both sides.
func (r *repository) LockPair(ctx context.Context, a, b int64) error {
	if a > b {
		a, b = b, a
	}
	_, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, fmt.Sprintf("user_matches:%d:%d", a, b))
	return err
}

func (r *repository) Upsert(ctx context.Context, m *UserMatch) error {
	query := `
		INSERT INTO user_matches (user_id, target_user_id, action, match_score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT user_matches_pair_key DO UPDATE SET
			action = EXCLUDED.action,
			match_score = EXCLUDED.match_score,
			created_at = NOW()
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, m.UserID, m.TargetUserID, m.Action, m.MatchScore).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func mapWriteError(err error) error {
	if constraint, ok := database.IsCheckViolation(err); ok {
		switch constraint {
		case "user_matches_not_self_check":
			return domainerr.WithCause(ErrSelfMatch, err)
		case "user_matches_score_check":
			return domainerr.WithCause(ErrInvalidScore, err)
		case "user_matches_action_check":
			return domainerr.WithCause(ErrInvalidAction, err)
		}
	}
	return err
}

func (r *repository) Get(ctx context.Context, userID, targetUserID int64) (*UserMatch, error) {
	var m UserMatch
	query := `SELECT * FROM user_matches WHERE user_id = $1 AND target_user_id = $2`
	if err := sqlx.GetContext(ctx, r.db, &m, query, userID, targetUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) HasLiked(ctx context.Context, userID, targetUserID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM user_matches
			WHERE user_id = $1 AND target_user_id = $2 AND action = 'LIKE'
		)
	`
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, query, userID, targetUserID)
	return exists, err
}

func (r *repository) SeenTargets(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT target_user_id FROM user_matches WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	ids := []int64{}
	err := sqlx.SelectContext(ctx, r.db, &ids, query, userID)
	return ids, err
}

func (r *repository) ListMutual(ctx context.Context, userID int64) ([]*UserMatch, error) {
	query := `
		SELECT m.* FROM user_matches m
		JOIN user_matches back
			ON back.user_id = m.target_user_id AND back.target_user_id = m.user_id
		WHERE m.user_id = $1 AND m.action = 'LIKE' AND back.action = 'LIKE'
		ORDER BY GREATEST(m.created_at, back.created_at) DESC, m.id DESC
	`
	matches := []*UserMatch{}
	err := sqlx.SelectContext(ctx, r.db, &matches, query, userID)
	return matches, err
}

// PurgeTarget removes every action by or towards a deleted user.
func (r *repository) PurgeTarget(ctx context.Context, tx *sqlx.Tx, target relation.Target) (int64, error) {
	if target.Type != relation.TargetUser {
		return 0, nil
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM user_matches WHERE user_id = $1 OR target_user_id = $1`, target.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
