package comment

import (
	"time"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
)

// MaxContentLength bounds comment content after trimming.
const MaxContentLength = 2000

// Comment is free text a user posts on a group, walk, dog or user. Comments are
// append-only.
type Comment struct {
	ID           int64  `db:"id" json:"id"`
	AuthorUserID int64  `db:"author_user_id" json:"author_user_id"`
	Content      string `db:"content" json:"content"`
	relation.Target
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
