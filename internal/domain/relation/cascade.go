package relation

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pawpals/pawpals-api/internal/pkg/database"
)

// Purger removes the rows a component keeps about an aggregate root. It runs inside
// the caller's transaction and returns how many rows it removed.
type Purger interface {
	PurgeTarget(ctx context.Context, tx *sqlx.Tx, target Target) (int64, error)
}

// PurgerFunc adapts a function to Purger.
type PurgerFunc func(ctx context.Context, tx *sqlx.Tx, target Target) (int64, error)

func (f PurgerFunc) PurgeTarget(ctx context.Context, tx *sqlx.Tx, target Target) (int64, error) {
	return f(ctx, tx, target)
}

// PurgeTarget removes every relation targeting target. For USER targets the comments and
// moderation actions the user authored go too, and moderation rows pointing at any
// removed comment are removed with it.
func (s *Store) PurgeTarget(ctx context.Context, tx *sqlx.Tx, target Target) (int64, error) {
	store := s.WithTx(tx)
	var total int64

	n, err := store.exec(ctx, `
		DELETE FROM moderation_actions
		WHERE target_type = 'COMMENT'
		  AND target_id IN (SELECT id FROM comments WHERE target_type = $1 AND target_id = $2)`,
		target.Type, target.ID)
	if err != nil {
		return total, fmt.Errorf("purge reports on comments: %w", err)
	}
	total += n

	if target.Type == TargetUser {
		n, err = store.exec(ctx, `
			DELETE FROM moderation_actions
			WHERE target_type = 'COMMENT'
			  AND target_id IN (SELECT id FROM comments WHERE author_user_id = $1)`,
			target.ID)
		if err != nil {
			return total, fmt.Errorf("purge reports on authored comments: %w", err)
		}
		total += n
	}

	for _, kind := range Kinds {
		n, err := store.DeleteByTarget(ctx, kind, target)
		if err != nil {
			return total, fmt.Errorf("purge %s by target: %w", kind, err)
		}
		total += n

		if kinds[kind].subjectType == target.Type {
			n, err = store.DeleteBySubject(ctx, kind, target.ID)
			if err != nil {
				return total, fmt.Errorf("purge %s by subject: %w", kind, err)
			}
			total += n
		}
	}
	return total, nil
}

// Cascade runs aggregate deletions across every registered purger.
type Cascade struct {
	db      *sqlx.DB
	purgers []Purger
}

// NewCascade creates a cascade over the given purgers. They run in registration order.
func NewCascade(db *sqlx.DB, purgers ...Purger) *Cascade {
	return &Cascade{db: db, purgers: purgers}
}

// Register adds a purger.
func (c *Cascade) Register(p Purger) {
	c.purgers = append(c.purgers, p)
}

// DeleteAggregate removes everything kept about target and, when removeRoot is not nil,
// the root itself. All of it commits or none of it does.
func (c *Cascade) DeleteAggregate(ctx context.Context, target Target, removeRoot database.TxFunc) (int64, error) {
	if _, err := ParseTargetType(string(target.Type)); err != nil {
		return 0, err
	}

	var total int64
	err := database.WithTx(ctx, c.db, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, p := range c.purgers {
			n, err := p.PurgeTarget(ctx, tx, target)
			if err != nil {
				return err
			}
			total += n
		}
		if removeRoot != nil {
			return removeRoot(ctx, tx)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
