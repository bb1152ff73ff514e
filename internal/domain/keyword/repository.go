package keyword

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/pkg/database"
	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

// Repository defines keyword data access interface
type Repository interface {
	Create(ctx context.Context, k *Keyword) error
	GetByID(ctx context.Context, id int64) (*Keyword, error)
	List(ctx context.Context, category string) ([]*Keyword, error)
	ListForTarget(ctx context.Context, target relation.Target) ([]*Keyword, error)
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates keyword repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, k *Keyword) error {
	query := `
		INSERT INTO keywords (name, category)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, k.Name, k.Category).Scan(&k.ID, &k.CreatedAt)
	if err != nil {
		return mapCreateDBError(err)
	}
	return nil
}

func mapCreateDBError(err error) error {
	if constraint, ok := database.IsUniqueViolation(err); ok && constraint == "keywords_name_category_key" {
		return domainerr.WithCause(ErrKeywordExists, err)
	}
	if constraint, ok := database.IsCheckViolation(err); ok && constraint == "keywords_name_check" {
		return domainerr.WithCause(ErrEmptyName, err)
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Keyword, error) {
	query := `SELECT id, name, category, created_at FROM keywords WHERE id = $1`
	var k Keyword
	if err := r.db.GetContext(ctx, &k, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &k, nil
}

func (r *repository) List(ctx context.Context, category string) ([]*Keyword, error) {
	query := `SELECT id, name, category, created_at FROM keywords`
	args := []interface{}{}
	if category = strings.TrimSpace(category); category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY category, name`

	keywords := []*Keyword{}
	err := r.db.SelectContext(ctx, &keywords, query, args...)
	return keywords, err
}

func (r *repository) ListForTarget(ctx context.Context, target relation.Target) ([]*Keyword, error) {
	query := `
		SELECT k.id, k.name, k.category, k.created_at
		FROM tag_assignments ta
		JOIN keywords k ON k.id = ta.keyword_id
		WHERE ta.target_type = $1 AND ta.target_id = $2
		ORDER BY ta.created_at ASC, ta.id ASC
	`
	keywords := []*Keyword{}
	err := r.db.SelectContext(ctx, &keywords, query, target.Type, target.ID)
	return keywords, err
}

func (r *repository) DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM keywords WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
