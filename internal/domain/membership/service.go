package membership

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/domain/resolver"
	"github.com/pawpals/pawpals-api/internal/pkg/database"
	"github.com/pawpals/pawpals-api/internal/pkg/logger"
	"github.com/pawpals/pawpals-api/internal/pkg/metrics"
	"github.com/pawpals/pawpals-api/internal/pkg/notify"
)

// Service applies the membership state machine. Transitions are guarded by the
// current status in the UPDATE itself, so concurrent callers never both win.
type Service struct {
	db       *sqlx.DB
	repo     Repository
	resolver resolver.Resolver
	notifier *notify.Dispatcher
}

// NewService creates membership service
func NewService(db *sqlx.DB, repo Repository, res resolver.Resolver, notifier *notify.Dispatcher) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		resolver: res,
		notifier: notifier,
	}
}

// Found creates the CREATOR membership for a group created elsewhere.
func (s *Service) Found(ctx context.Context, groupID, creatorID int64) (*Membership, error) {
	var m *Membership
	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error
		m, err = s.FoundTx(ctx, tx, groupID, creatorID)
		return err
	})
	return m, err
}

// FoundTx creates the CREATOR membership inside the transaction that creates the group.
func (s *Service) FoundTx(ctx context.Context, tx *sqlx.Tx, groupID, creatorID int64) (*Membership, error) {
	m := &Membership{
		UserID:  creatorID,
		GroupID: groupID,
		Status:  StatusActive,
		Role:    rolePtr(RoleCreator),
	}
	if err := s.repo.WithTx(tx).Create(ctx, m); err != nil {
		return nil, err
	}
	metrics.MembershipTransition(string(StatusActive))
	return m, nil
}

// FoundWith runs insertGroup and the creator insert in one transaction. insertGroup
// returns the new group's id.
func (s *Service) FoundWith(ctx context.Context, creatorID int64, insertGroup func(ctx context.Context, tx *sqlx.Tx) (int64, error)) (*Membership, error) {
	var m *Membership
	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		groupID, err := insertGroup(ctx, tx)
		if err != nil {
			return err
		}
		m, err = s.FoundTx(ctx, tx, groupID, creatorID)
		return err
	})
	return m, err
}

// RequestJoin records userID asking to join groupID.
func (s *Service) RequestJoin(ctx context.Context, userID, groupID int64) (*Membership, error) {
	return s.create(ctx, userID, groupID, StatusRequested)
}

// Invite records an invitation of userID into groupID.
func (s *Service) Invite(ctx context.Context, userID, groupID int64) (*Membership, error) {
	if err := resolver.Exists(ctx, s.resolver, relation.Target{Type: relation.TargetUser, ID: userID}); err != nil {
		return nil, err
	}
	return s.create(ctx, userID, groupID, StatusInvited)
}

func (s *Service) create(ctx context.Context, userID, groupID int64, status Status) (*Membership, error) {
	if err := resolver.Exists(ctx, s.resolver, relation.Target{Type: relation.TargetGroup, ID: groupID}); err != nil {
		return nil, err
	}

	m := &Membership{UserID: userID, GroupID: groupID, Status: status}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	metrics.MembershipTransition(string(status))
	return m, nil
}

// Get returns a membership by ID
func (s *Service) Get(ctx context.Context, id int64) (*Membership, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMembershipNotFound
	}
	return m, nil
}

// Accept activates an invitation or join request and notifies the member.
func (s *Service) Accept(ctx context.Context, id int64) (*Membership, error) {
	m, err := s.transition(ctx, id, (*Membership).Accept)
	if err != nil {
		return nil, err
	}
	s.notifier.Dispatch(ctx, notify.NewEvent(notify.TypeMembershipAccepted, m.UserID, map[string]interface{}{
		"membership_id": m.ID,
		"group_id":      m.GroupID,
	}))
	return m, nil
}

// Promote sets an active member's role to ADMIN or MEMBER.
func (s *Service) Promote(ctx context.Context, id int64, role Role) (*Membership, error) {
	return s.transition(ctx, id, func(m *Membership) (Transition, error) {
		return m.Promote(role)
	})
}

// Ban bans a membership in any state, except the creator's.
func (s *Service) Ban(ctx context.Context, id int64) (*Membership, error) {
	return s.transition(ctx, id, (*Membership).Ban)
}

// Unban turns a ban into an invitation.
func (s *Service) Unban(ctx context.Context, id int64) (*Membership, error) {
	return s.transition(ctx, id, (*Membership).Unban)
}

func (s *Service) transition(ctx context.Context, id int64, next func(*Membership) (Transition, error)) (*Membership, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	t, err := next(current)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.ApplyTransition(ctx, id, t)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// The guard lost a race; report against the state we can see now.
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrConcurrentUpdate
	}

	metrics.MembershipTransition(string(updated.Status))
	logger.LogInfo(ctx, "Membership transition",
		"membership_id", id,
		"from", t.From,
		"to", t.To,
	)
	return updated, nil
}

// Leave deletes a membership. The creator cannot leave.
func (s *Service) Leave(ctx context.Context, id int64) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if m.IsCreator() {
		return ErrCreatorImmutable
	}

	deleted, err := s.repo.DeleteNonCreator(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMembershipNotFound
	}
	return nil
}

// ActiveMembers lists active members of a group
func (s *Service) ActiveMembers(ctx context.Context, groupID int64) ([]*Membership, error) {
	return s.repo.ListByGroup(ctx, groupID, StatusActive)
}

// PendingRequests lists join requests awaiting a decision
func (s *Service) PendingRequests(ctx context.Context, groupID int64) ([]*Membership, error) {
	return s.repo.ListByGroup(ctx, groupID, StatusRequested)
}

// PendingInvites lists invitations not yet accepted
func (s *Service) PendingInvites(ctx context.Context, groupID int64) ([]*Membership, error) {
	return s.repo.ListByGroup(ctx, groupID, StatusInvited)
}

// MembershipsOf lists every membership of a user
func (s *Service) MembershipsOf(ctx context.Context, userID int64) ([]*Membership, error) {
	return s.repo.ListByUser(ctx, userID)
}
