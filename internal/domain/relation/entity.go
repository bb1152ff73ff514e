package relation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

// TargetType is the closed set of entity kinds a relation can point at.
type TargetType string

const (
	TargetUser    TargetType = "USER"
	TargetDog     TargetType = "DOG"
	TargetGroup   TargetType = "GROUP"
	TargetWalk    TargetType = "WALK"
	TargetComment TargetType = "COMMENT"
)

// TargetTypes lists every known target type.
var TargetTypes = []TargetType{TargetUser, TargetDog, TargetGroup, TargetWalk, TargetComment}

// ParseTargetType parses s case-insensitively.
func ParseTargetType(s string) (TargetType, error) {
	tt := TargetType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range TargetTypes {
		if tt == known {
			return tt, nil
		}
	}
	return "", fmt.Errorf("%w: unknown target type %q", domainerr.ErrInvalidTarget, s)
}

// Target is the (targetType, targetId) discriminator of a relation. It is a weak
// reference: it is only stored and looked up, never traversed.
type Target struct {
	Type TargetType `db:"target_type" json:"target_type"`
	ID   int64      `db:"target_id" json:"target_id"`
}

// NewTarget parses a target from its wire form.
func NewTarget(targetType string, id int64) (Target, error) {
	tt, err := ParseTargetType(targetType)
	if err != nil {
		return Target{}, err
	}
	if id <= 0 {
		return Target{}, fmt.Errorf("%w: target id must be positive", domainerr.ErrInvalidTarget)
	}
	return Target{Type: tt, ID: id}, nil
}

// ParseTarget parses a target from string type and id, as found in paths and queries.
func ParseTarget(targetType, id string) (Target, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return Target{}, fmt.Errorf("%w: invalid target id %q", domainerr.ErrInvalidTarget, id)
	}
	return NewTarget(targetType, n)
}

func (t Target) String() string {
	return string(t.Type) + ":" + strconv.FormatInt(t.ID, 10)
}

// Relation is the kind-independent view of a relation row.
type Relation struct {
	ID         int64 `db:"id" json:"id"`
	Kind       Kind  `db:"-" json:"kind"`
	SubjectKey int64 `db:"subject_key" json:"subject_key"`
	Target
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
