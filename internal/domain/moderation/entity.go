package moderation

import (
	"strings"
	"time"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
)

// ActionType distinguishes blocks from reports
type ActionType string

const (
	ActionBlock  ActionType = "BLOCK"
	ActionReport ActionType = "REPORT"
)

// ParseActionType parses s case-insensitively.
func ParseActionType(s string) (ActionType, error) {
	switch at := ActionType(strings.ToUpper(strings.TrimSpace(s))); at {
	case ActionBlock, ActionReport:
		return at, nil
	default:
		return "", ErrInvalidActionType
	}
}

// Status is the review state of a report. Blocks have none.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusResolved Status = "RESOLVED"
	StatusRejected Status = "REJECTED"
)

// ParseStatus parses s case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusResolved, StatusRejected:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Action is a block or report filed by a user against any target.
type Action struct {
	ID          int64      `db:"id" json:"id"`
	ActorUserID int64      `db:"actor_user_id" json:"actor_user_id"`
	ActionType  ActionType `db:"action_type" json:"action_type"`
	relation.Target
	Comment        *string    `db:"comment" json:"comment,omitempty"`
	Status         *Status    `db:"status" json:"status,omitempty"`
	ResolvedBy     *int64     `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolutionNote *string    `db:"resolution_note" json:"resolution_note,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt     *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}

// IsPendingReport reports whether the action can still be resolved or rejected.
func (a *Action) IsPendingReport() bool {
	return a.ActionType == ActionReport && a.Status != nil && *a.Status == StatusPending
}
