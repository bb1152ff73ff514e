package membership

import "context"

// Policy decides whether actorID may manage groupID's memberships.
type Policy interface {
	CanManage(ctx context.Context, actorID, groupID int64) (bool, error)
}

// RolePolicy lets active creators and admins manage their group.
type RolePolicy struct {
	repo Repository
}

// NewRolePolicy creates the default policy
func NewRolePolicy(repo Repository) *RolePolicy {
	return &RolePolicy{repo: repo}
}

func (p *RolePolicy) CanManage(ctx context.Context, actorID, groupID int64) (bool, error) {
	m, err := p.repo.GetByUserGroup(ctx, actorID, groupID)
	if err != nil || m == nil {
		return false, err
	}
	return m.HasRole(RoleCreator, RoleAdmin), nil
}
