package resolver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
)

// Table describes where an owning service keeps an entity type.
type Table struct {
	Name        string
	LabelColumn string
	// ImageColumn is optional.
	ImageColumn string
}

// DefaultTables maps every target type to its owner table.
var DefaultTables = map[relation.TargetType]Table{
	relation.TargetUser:    {Name: "users", LabelColumn: "display_name", ImageColumn: "avatar_url"},
	relation.TargetDog:     {Name: "dogs", LabelColumn: "name", ImageColumn: "photo_url"},
	relation.TargetGroup:   {Name: "groups", LabelColumn: "name", ImageColumn: "cover_url"},
	relation.TargetWalk:    {Name: "walks", LabelColumn: "title"},
	relation.TargetComment: {Name: "comments", LabelColumn: "content"},
}

// SQLResolver reads descriptors from the owner tables in the shared database.
type SQLResolver struct {
	db     *sqlx.DB
	tables map[relation.TargetType]Table
}

// NewSQLResolver creates a resolver. A nil tables map uses DefaultTables.
func NewSQLResolver(db *sqlx.DB, tables map[relation.TargetType]Table) *SQLResolver {
	if tables == nil {
		tables = DefaultTables
	}
	return &SQLResolver{db: db, tables: tables}
}

type descriptorRow struct {
	ID       int64          `db:"id"`
	Label    sql.NullString `db:"label"`
	ImageURL sql.NullString `db:"image_url"`
}

func (r *SQLResolver) Resolve(ctx context.Context, target relation.Target) (*Descriptor, error) {
	table, ok := r.tables[target.Type]
	if !ok {
		return nil, notFound(target)
	}

	image := "NULL"
	if table.ImageColumn != "" {
		image = table.ImageColumn
	}
	query := fmt.Sprintf(`SELECT id, %s::text AS label, %s::text AS image_url FROM %s WHERE id = $1`,
		table.LabelColumn, image, table.Name)

	var row descriptorRow
	if err := r.db.GetContext(ctx, &row, query, target.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(target)
		}
		return nil, fmt.Errorf("resolve %s: %w", target, err)
	}

	d := &Descriptor{Type: target.Type, ID: row.ID, Label: row.Label.String}
	if row.ImageURL.Valid {
		d.ImageURL = &row.ImageURL.String
	}
	return d, nil
}
