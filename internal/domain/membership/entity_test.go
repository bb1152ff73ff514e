package membership

import (
	"errors"
	"testing"

	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

func membership(status Status, role Role) *Membership {
	m := &Membership{ID: 1, UserID: 2, GroupID: 3, Status: status}
	if role != "" {
		m.Role = rolePtr(role)
	}
	return m
}

func TestStateMachine(t *testing.T) {
	tests := []struct {
		name     string
		m        *Membership
		apply    func(*Membership) (Transition, error)
		wantTo   Status
		wantRole Role
		wantErr  error
	}{
		{name: "accept request", m: membership(StatusRequested, ""), apply: (*Membership).Accept, wantTo: StatusActive, wantRole: RoleMember},
		{name: "accept invite", m: membership(StatusInvited, ""), apply: (*Membership).Accept, wantTo: StatusActive, wantRole: RoleMember},
		{name: "accept active", m: membership(StatusActive, RoleMember), apply: (*Membership).Accept, wantErr: ErrCannotAccept},
		{name: "accept banned", m: membership(StatusBanned, ""), apply: (*Membership).Accept, wantErr: ErrCannotAccept},
		{
			name:     "promote member",
			m:        membership(StatusActive, RoleMember),
			apply:    func(m *Membership) (Transition, error) { return m.Promote(RoleAdmin) },
			wantTo:   StatusActive,
			wantRole: RoleAdmin,
		},
		{
			name:     "demote admin",
			m:        membership(StatusActive, RoleAdmin),
			apply:    func(m *Membership) (Transition, error) { return m.Promote(RoleMember) },
			wantTo:   StatusActive,
			wantRole: RoleMember,
		},
		{
			name:    "promote to creator",
			m:       membership(StatusActive, RoleMember),
			apply:   func(m *Membership) (Transition, error) { return m.Promote(RoleCreator) },
			wantErr: ErrCreatorNotAssignable,
		},
		{
			name:    "promote pending",
			m:       membership(StatusRequested, ""),
			apply:   func(m *Membership) (Transition, error) { return m.Promote(RoleAdmin) },
			wantErr: ErrNotActive,
		},
		{
			name:    "demote creator",
			m:       membership(StatusActive, RoleCreator),
			apply:   func(m *Membership) (Transition, error) { return m.Promote(RoleMember) },
			wantErr: ErrCreatorImmutable,
		},
		{name: "ban active", m: membership(StatusActive, RoleAdmin), apply: (*Membership).Ban, wantTo: StatusBanned},
		{name: "ban invited", m: membership(StatusInvited, ""), apply: (*Membership).Ban, wantTo: StatusBanned},
		{name: "ban creator", m: membership(StatusActive, RoleCreator), apply: (*Membership).Ban, wantErr: ErrCreatorImmutable},
		{name: "unban", m: membership(StatusBanned, ""), apply: (*Membership).Unban, wantTo: StatusInvited},
		{name: "unban active", m: membership(StatusActive, RoleMember), apply: (*Membership).Unban, wantErr: ErrNotBanned},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := tc.apply(tc.m)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if !errors.Is(err, domainerr.ErrInvalidTransition) {
					t.Fatalf("expected an invalid transition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr.From != tc.m.Status || tr.To != tc.wantTo {
				t.Fatalf("unexpected transition %+v", tr)
			}
			// Role is non-null exactly when the target state is ACTIVE.
			if (tr.To == StatusActive) != (tr.Role != nil) {
				t.Fatalf("role/status coupling broken: %+v", tr)
			}
			if tc.wantRole != "" && *tr.Role != tc.wantRole {
				t.Fatalf("expected role %s, got %s", tc.wantRole, *tr.Role)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole("admin"); err != nil || r != RoleAdmin {
		t.Fatalf("got %q, %v", r, err)
	}
	if _, err := ParseRole("creator"); !errors.Is(err, domainerr.ErrInvalidTransition) {
		t.Fatalf("expected creator to be unassignable, got %v", err)
	}
	if _, err := ParseRole("owner"); !errors.Is(err, domainerr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHasRole(t *testing.T) {
	if !membership(StatusActive, RoleCreator).HasRole(RoleCreator, RoleAdmin) {
		t.Fatal("creator should manage")
	}
	if membership(StatusActive, RoleMember).HasRole(RoleCreator, RoleAdmin) {
		t.Fatal("member should not manage")
	}
	if membership(StatusBanned, "").HasRole(RoleMember) {
		t.Fatal("banned has no role")
	}
}
