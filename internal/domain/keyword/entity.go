package keyword

import (
	"time"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
)

// Keyword is a reusable label. It is immutable once created.
type Keyword struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TagAssignment attaches a keyword to a user, dog or group.
type TagAssignment struct {
	ID        int64 `db:"id" json:"id"`
	KeywordID int64 `db:"keyword_id" json:"keyword_id"`
	relation.Target
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
