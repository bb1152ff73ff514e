package membership

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a membership
type Status string

const (
	StatusInvited   Status = "INVITED"
	StatusRequested Status = "REQUESTED"
	StatusActive    Status = "ACTIVE"
	StatusBanned    Status = "BANNED"
)

// Role is held only by active members
type Role string

const (
	RoleCreator Role = "CREATOR"
	RoleAdmin   Role = "ADMIN"
	RoleMember  Role = "MEMBER"
)

// ParseRole parses an assignable role. CREATOR is never assignable.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleMember:
		return r, nil
	case RoleCreator:
		return "", ErrCreatorNotAssignable
	default:
		return "", ErrInvalidRole
	}
}

// Membership links a user to a group. Role is set exactly when Status is ACTIVE, and a
// group has at most one CREATOR.
type Membership struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	GroupID   int64     `db:"group_id" json:"group_id"`
	Status    Status    `db:"status" json:"status"`
	Role      *Role     `db:"role" json:"role,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsCreator reports whether m is the group's creator row.
func (m *Membership) IsCreator() bool {
	return m.Role != nil && *m.Role == RoleCreator
}

// HasRole reports whether m is active with one of roles.
func (m *Membership) HasRole(roles ...Role) bool {
	if m.Status != StatusActive || m.Role == nil {
		return false
	}
	for _, r := range roles {
		if *m.Role == r {
			return true
		}
	}
	return false
}

// Transition is a target state computed by the state machine.
type Transition struct {
	From Status
	To   Status
	Role *Role
}

func rolePtr(r Role) *Role {
	return &r
}

// Accept activates an invitation or join request. The role defaults to MEMBER.
func (m *Membership) Accept() (Transition, error) {
	if m.Status != StatusRequested && m.Status != StatusInvited {
		return Transition{}, ErrCannotAccept
	}
	role := m.Role
	if role == nil {
		role = rolePtr(RoleMember)
	}
	return Transition{From: m.Status, To: StatusActive, Role: role}, nil
}

// Promote changes an active member's role between ADMIN and MEMBER.
func (m *Membership) Promote(role Role) (Transition, error) {
	if role != RoleAdmin && role != RoleMember {
		return Transition{}, ErrCreatorNotAssignable
	}
	if m.Status != StatusActive {
		return Transition{}, ErrNotActive
	}
	if m.IsCreator() {
		return Transition{}, ErrCreatorImmutable
	}
	return Transition{From: m.Status, To: StatusActive, Role: rolePtr(role)}, nil
}

// Ban moves any non-creator membership to BANNED and clears the role.
func (m *Membership) Ban() (Transition, error) {
	if m.IsCreator() {
		return Transition{}, ErrCreatorImmutable
	}
	return Transition{From: m.Status, To: StatusBanned}, nil
}

// Unban turns a ban back into an invitation.
func (m *Membership) Unban() (Transition, error) {
	if m.Status != StatusBanned {
		return Transition{}, ErrNotBanned
	}
	return Transition{From: m.Status, To: StatusInvited}, nil
}
