package match

import (
	"strings"
	"time"

	"github.com/pawpals/pawpals-api/internal/domain/resolver"
)

// Action is a directed judgement of one user by another
type Action string

const (
	ActionLike    Action = "LIKE"
	ActionDislike Action = "DISLIKE"
)

// Score bounds
const (
	MinScore = 0
	MaxScore = 100
)

// ParseAction parses s case-insensitively.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToUpper(strings.TrimSpace(s))); a {
	case ActionLike, ActionDislike:
		return a, nil
	default:
		return "", ErrInvalidAction
	}
}

// UserMatch is the latest action of UserID towards TargetUserID. There is one row per
// ordered pair; a later action overwrites it.
type UserMatch struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	TargetUserID int64     `db:"target_user_id" json:"target_user_id"`
	Action       Action    `db:"action" json:"action"`
	MatchScore   *int      `db:"match_score" json:"match_score,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Result is the outcome of recording an action.
type Result struct {
	Match   *UserMatch `json:"match"`
	IsMatch bool       `json:"is_match"`
}

// Mutual is a mutual match seen from one side, with the other user hydrated.
type Mutual struct {
	*UserMatch
	User *resolver.Descriptor `json:"user"`
}
