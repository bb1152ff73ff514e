package relation

import (
	"fmt"

	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

// Kind identifies a relation kind backed by the store.
type Kind string

const (
	KindTag        Kind = "TAG"
	KindComment    Kind = "COMMENT"
	KindModeration Kind = "MODERATION"
)

// Kinds lists every registered relation kind, in cascade order: moderation rows may
// point at comments, so they are purged first.
var Kinds = []Kind{KindModeration, KindComment, KindTag}

type kindSpec struct {
	table         string
	subjectColumn string
	// subjectType is the entity type of the subject key, empty when the subject is
	// not an entity another aggregate owns (tags are keyed by keyword).
	subjectType TargetType
	targets     []TargetType
	unique      bool
	// uniqueConstraint is the storage constraint enforcing the natural key.
	uniqueConstraint string
	payload          []string
}

var kinds = map[Kind]kindSpec{
	KindTag: {
		table:            "tag_assignments",
		subjectColumn:    "keyword_id",
		targets:          []TargetType{TargetUser, TargetDog, TargetGroup},
		unique:           true,
		uniqueConstraint: "tag_assignments_keyword_target_key",
	},
	KindComment: {
		table:         "comments",
		subjectColumn: "author_user_id",
		subjectType:   TargetUser,
		targets:       []TargetType{TargetGroup, TargetWalk, TargetDog, TargetUser},
		payload:       []string{"content"},
	},
	KindModeration: {
		table:         "moderation_actions",
		subjectColumn: "actor_user_id",
		subjectType:   TargetUser,
		targets:       []TargetType{TargetUser, TargetDog, TargetGroup, TargetWalk, TargetComment},
		payload:       []string{"action_type", "comment", "status"},
	},
}

func (k Kind) spec() (kindSpec, error) {
	s, ok := kinds[k]
	if !ok {
		return kindSpec{}, fmt.Errorf("unknown relation kind %q", string(k))
	}
	return s, nil
}

// Unique reports whether the kind enforces a natural-key uniqueness constraint.
func (k Kind) Unique() bool {
	return kinds[k].unique
}

// Targets returns the allow-list of target types for the kind.
func (k Kind) Targets() []TargetType {
	return append([]TargetType(nil), kinds[k].targets...)
}

// Allows reports whether tt is in the kind's allow-list.
func (k Kind) Allows(tt TargetType) bool {
	for _, allowed := range kinds[k].targets {
		if allowed == tt {
			return true
		}
	}
	return false
}

// Validate checks target against the kind's allow-list.
func (k Kind) Validate(target Target) error {
	if !k.Allows(target.Type) {
		return fmt.Errorf("%w: %s cannot target %s", domainerr.ErrInvalidTarget, k, target.Type)
	}
	if target.ID <= 0 {
		return fmt.Errorf("%w: target id must be positive", domainerr.ErrInvalidTarget)
	}
	return nil
}

func (k Kind) allowsPayload(column string) bool {
	for _, c := range kinds[k].payload {
		if c == column {
			return true
		}
	}
	return false
}
