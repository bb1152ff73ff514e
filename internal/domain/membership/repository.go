package membership

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/pkg/database"
	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

// Repository defines membership data access interface
type Repository interface {
	WithTx(tx *sqlx.Tx) Repository
	Create(ctx context.Context, m *Membership) error
	GetByID(ctx context.Context, id int64) (*Membership, error)
	GetByUserGroup(ctx context.Context, userID, groupID int64) (*Membership, error)
	// ApplyTransition updates the row only while it is still in t.From. It returns
	// nil, nil when the guard did not match.
	ApplyTransition(ctx context.Context, id int64, t Transition) (*Membership, error)
	DeleteNonCreator(ctx context.Context, id int64) (bool, error)
	ListByGroup(ctx context.Context, groupID int64, status Status) ([]*Membership, error)
	ListByUser(ctx context.Context, userID int64) ([]*Membership, error)
	PurgeTarget(ctx context.Context, tx *sqlx.Tx, target relation.Target) (int64, error)
}

type repository struct {
	db sqlx.ExtContext
}

// NewRepository creates membership repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sqlx.Tx) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, m *Membership) error {
	query := `
		INSERT INTO group_memberships (user_id, group_id, status, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, m.UserID, m.GroupID, m.Status, m.Role).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return mapCreateDBError(err)
	}
	return nil
}

func mapCreateDBError(err error) error {
	constraint, ok := database.IsUniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case "group_memberships_one_creator":
		return domainerr.WithCause(ErrCreatorExists, err)
	default:
		return domainerr.WithCause(ErrAlreadyMember, err)
	}
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Membership, error) {
	return r.getOne(ctx, `SELECT * FROM group_memberships WHERE id = $1`, id)
}

func (r *repository) GetByUserGroup(ctx context.Context, userID, groupID int64) (*Membership, error) {
	return r.getOne(ctx, `SELECT * FROM group_memberships WHERE user_id = $1 AND group_id = $2`, userID, groupID)
}

func (r *repository) getOne(ctx context.Context, query string, args ...interface{}) (*Membership, error) {
	var m Membership
	if err := sqlx.GetContext(ctx, r.db, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) ApplyTransition(ctx context.Context, id int64, t Transition) (*Membership, error) {
	query := `
		UPDATE group_memberships
		SET status = $1, role = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING *
	`
	return r.getOne(ctx, query, t.To, t.Role, id, t.From)
}

func (r *repository) DeleteNonCreator(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM group_memberships WHERE id = $1 AND role IS DISTINCT FROM 'CREATOR'`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *repository) ListByGroup(ctx context.Context, groupID int64, status Status) ([]*Membership, error) {
	query := `
		SELECT * FROM group_memberships
		WHERE group_id = $1 AND status = $2
		ORDER BY created_at ASC, id ASC
	`
	memberships := []*Membership{}
	err := sqlx.SelectContext(ctx, r.db, &memberships, query, groupID, status)
	return memberships, err
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]*Membership, error) {
	query := `
		SELECT * FROM group_memberships
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	memberships := []*Membership{}
	err := sqlx.SelectContext(ctx, r.db, &memberships, query, userID)
	return memberships, err
}

// PurgeTarget removes memberships of a deleted group or user.
func (r *repository) PurgeTarget(ctx context.Context, tx *sqlx.Tx, target relation.Target) (int64, error) {
	var query string
	switch target.Type {
	case relation.TargetGroup:
		query = `DELETE FROM group_memberships WHERE group_id = $1`
	case relation.TargetUser:
		// A founder's CREATOR row stays until the group itself is purged.
		query = `DELETE FROM group_memberships WHERE user_id = $1 AND role IS DISTINCT FROM 'CREATOR'`
	default:
		return 0, nil
	}
	result, err := tx.ExecContext(ctx, query, target.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
