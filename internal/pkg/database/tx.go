package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TxFunc is the body of a transaction.
type TxFunc func(ctx context.Context, tx *sqlx.Tx) error

// WithTx runs fn inside a single transaction. The transaction is rolled back when fn
// returns an error or panics, and committed otherwise. fn's error is returned as is so
// callers can keep matching domain sentinels.
func WithTx(ctx context.Context, db *sqlx.DB, fn TxFunc) error {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
