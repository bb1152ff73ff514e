package relation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/pawpals/pawpals-api/internal/pkg/database"
	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

// Payload carries kind-specific column values for Assign. Keys must be in the kind's
// payload list.
type Payload map[string]interface{}

// Store persists relation tuples for every registered kind. It holds no state beyond
// its handle, so a Store bound to a transaction is a cheap value.
type Store struct {
	db sqlx.ExtContext
}

// NewStore creates a relation store over db.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// WithTx returns a store whose statements run inside tx.
func (s *Store) WithTx(tx *sqlx.Tx) *Store {
	return &Store{db: tx}
}

// Assign inserts a relation of kind and scans the stored row into dest, which must be a
// pointer to the kind's row struct. A unique kind whose natural key already exists
// fails with ErrDuplicateRelation; the storage constraint decides races.
func (s *Store) Assign(ctx context.Context, kind Kind, subjectKey int64, target Target, payload Payload, dest interface{}) error {
	spec, err := kind.spec()
	if err != nil {
		return err
	}
	if err := kind.Validate(target); err != nil {
		return err
	}

	columns := []string{spec.subjectColumn, "target_type", "target_id"}
	args := map[string]interface{}{
		spec.subjectColumn: subjectKey,
		"target_type":      target.Type,
		"target_id":        target.ID,
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		if !kind.allowsPayload(k) {
			return fmt.Errorf("relation %s does not accept column %q", kind, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		columns = append(columns, k)
		args[k] = payload[k]
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (:%s) RETURNING *`,
		spec.table, strings.Join(columns, ", "), strings.Join(columns, ", :"))

	rows, err := sqlx.NamedQueryContext(ctx, s.db, query, args)
	if err != nil {
		return mapWriteError(kind, spec, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return mapWriteError(kind, spec, err)
		}
		return fmt.Errorf("insert %s: no row returned", spec.table)
	}
	if err := rows.StructScan(dest); err != nil {
		return err
	}
	return rows.Close()
}

// Get scans the relation with id into dest, or returns ErrNotFound.
func (s *Store) Get(ctx context.Context, kind Kind, id int64, dest interface{}) error {
	spec, err := kind.spec()
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`SELECT * FROM %s WHERE id = $1`, spec.table)
	if err := sqlx.GetContext(ctx, s.db, dest, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(kind, id)
		}
		return err
	}
	return nil
}

// Unassign removes the relation with id. It is not idempotent: a missing row is
// ErrNotFound.
func (s *Store) Unassign(ctx context.Context, kind Kind, id int64) error {
	spec, err := kind.spec()
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, spec.table)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}

// ListByTarget returns the kind's relations on target in creation order.
func (s *Store) ListByTarget(ctx context.Context, kind Kind, target Target) ([]*Relation, error) {
	spec, err := kind.spec()
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT id, %s AS subject_key, target_type, target_id, created_at
		FROM %s
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at ASC, id ASC`, spec.subjectColumn, spec.table)
	var rels []*Relation
	if err := sqlx.SelectContext(ctx, s.db, &rels, query, target.Type, target.ID); err != nil {
		return nil, err
	}
	return withKind(rels, kind), nil
}

// ListBySubject returns the kind's relations whose subject is subjectKey in creation order.
func (s *Store) ListBySubject(ctx context.Context, kind Kind, subjectKey int64) ([]*Relation, error) {
	spec, err := kind.spec()
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT id, %s AS subject_key, target_type, target_id, created_at
		FROM %s
		WHERE %s = $1
		ORDER BY created_at ASC, id ASC`, spec.subjectColumn, spec.table, spec.subjectColumn)
	var rels []*Relation
	if err := sqlx.SelectContext(ctx, s.db, &rels, query, subjectKey); err != nil {
		return nil, err
	}
	return withKind(rels, kind), nil
}

// SelectByTarget scans the kind's full rows on target into dest (a pointer to a slice),
// in creation order.
func (s *Store) SelectByTarget(ctx context.Context, kind Kind, target Target, dest interface{}) error {
	spec, err := kind.spec()
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		SELECT * FROM %s
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at ASC, id ASC`, spec.table)
	return sqlx.SelectContext(ctx, s.db, dest, query, target.Type, target.ID)
}

// SelectBySubject scans the kind's full rows for subjectKey into dest, in creation order.
func (s *Store) SelectBySubject(ctx context.Context, kind Kind, subjectKey int64, dest interface{}) error {
	spec, err := kind.spec()
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		SELECT * FROM %s
		WHERE %s = $1
		ORDER BY created_at ASC, id ASC`, spec.table, spec.subjectColumn)
	return sqlx.SelectContext(ctx, s.db, dest, query, subjectKey)
}

// CountByTarget counts the kind's relations on target.
func (s *Store) CountByTarget(ctx context.Context, kind Kind, target Target) (int, error) {
	spec, err := kind.spec()
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE target_type = $1 AND target_id = $2`, spec.table)
	var count int
	err = sqlx.GetContext(ctx, s.db, &count, query, target.Type, target.ID)
	return count, err
}

// DeleteByTarget removes every relation of kind pointing at target.
func (s *Store) DeleteByTarget(ctx context.Context, kind Kind, target Target) (int64, error) {
	spec, err := kind.spec()
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE target_type = $1 AND target_id = $2`, spec.table)
	return s.exec(ctx, query, target.Type, target.ID)
}

// DeleteBySubject removes every relation of kind whose subject is subjectKey.
func (s *Store) DeleteBySubject(ctx context.Context, kind Kind, subjectKey int64) (int64, error) {
	spec, err := kind.spec()
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, spec.table, spec.subjectColumn)
	return s.exec(ctx, query, subjectKey)
}

func (s *Store) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func withKind(rels []*Relation, kind Kind) []*Relation {
	for _, r := range rels {
		r.Kind = kind
	}
	return rels
}

func notFound(kind Kind, id int64) error {
	return fmt.Errorf("%w: %s relation %d", domainerr.ErrNotFound, strings.ToLower(string(kind)), id)
}

func mapWriteError(kind Kind, spec kindSpec, err error) error {
	if constraint, ok := database.IsUniqueViolation(err); ok {
		if spec.unique && (spec.uniqueConstraint == "" || constraint == spec.uniqueConstraint) {
			return domainerr.WithCause(fmt.Errorf("%w: %s already exists", domainerr.ErrDuplicateRelation, strings.ToLower(string(kind))), err)
		}
		return err
	}
	if database.IsForeignKeyViolation(err) {
		return domainerr.WithCause(fmt.Errorf("%w: %s subject does not exist", domainerr.ErrNotFound, strings.ToLower(string(kind))), err)
	}
	if constraint, ok := database.IsCheckViolation(err); ok && strings.HasSuffix(constraint, "target_type_check") {
		return domainerr.WithCause(domainerr.ErrInvalidTarget, err)
	}
	return err
}
