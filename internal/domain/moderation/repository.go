package moderation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository covers the moderation queries the generic relation store does not.
type Repository interface {
	ListByActor(ctx context.Context, actorID int64, actionType ActionType) ([]*Action, error)
	ListReports(ctx context.Context, filter *ListReportsFilter) ([]*Action, error)
	CountReports(ctx context.Context, filter *ListReportsFilter) (int, error)
	Review(ctx context.Context, id int64, status Status, moderatorID int64, note *string) (*Action, error)
	IsBlocked(ctx context.Context, user1, user2 int64) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new moderation repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByActor(ctx context.Context, actorID int64, actionType ActionType) ([]*Action, error) {
	query := `SELECT * FROM moderation_actions WHERE actor_user_id = $1`
	args := []interface{}{actorID}
	if actionType != "" {
		query += ` AND action_type = $2`
		args = append(args, actionType)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	actions := []*Action{}
	err := r.db.SelectContext(ctx, &actions, query, args...)
	return actions, err
}

func (r *repository) ListReports(ctx context.Context, filter *ListReportsFilter) ([]*Action, error) {
	query := `
		SELECT * FROM moderation_actions
		WHERE action_type = 'REPORT'
	`
	args := []interface{}{}
	argPos := 1

	if filter != nil && filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argPos)
		args = append(args, filter.Status)
		argPos++
	}

	query += ` ORDER BY created_at ASC, id ASC`

	if filter != nil && filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, argPos)
		args = append(args, filter.Limit)
		argPos++
	}

	if filter != nil && filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argPos)
		args = append(args, filter.Offset)
	}

	reports := []*Action{}
	err := r.db.SelectContext(ctx, &reports, query, args...)
	return reports, err
}

func (r *repository) CountReports(ctx context.Context, filter *ListReportsFilter) (int, error) {
	query := `SELECT COUNT(*) FROM moderation_actions WHERE action_type = 'REPORT'`
	args := []interface{}{}

	if filter != nil && filter.Status != "" {
		query += ` AND status = $1`
		args = append(args, filter.Status)
	}

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	return count, err
}

// Review moves a pending report to status. It returns nil, nil when the row is not a
// pending report, whether or not it exists.
func (r *repository) Review(ctx context.Context, id int64, status Status, moderatorID int64, note *string) (*Action, error) {
	query := `
		UPDATE moderation_actions
		SET status = $1, resolved_by = $2, resolution_note = $3, resolved_at = NOW()
		WHERE id = $4 AND action_type = 'REPORT' AND status = 'PENDING'
		RETURNING *
	`
	var action Action
	err := r.db.GetContext(ctx, &action, query, status, moderatorID, note, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &action, nil
}

func (r *repository) IsBlocked(ctx context.Context, user1, user2 int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM moderation_actions
			WHERE action_type = 'BLOCK' AND target_type = 'USER'
			  AND ((actor_user_id = $1 AND target_id = $2)
			    OR (actor_user_id = $2 AND target_id = $1))
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, user1, user2)
	return exists, err
}
