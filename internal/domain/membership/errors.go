package membership

import (
	"fmt"

	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

var (
	ErrMembershipNotFound   = fmt.Errorf("%w: membership not found", domainerr.ErrNotFound)
	ErrAlreadyMember        = fmt.Errorf("%w: user already has a membership in this group", domainerr.ErrDuplicateMembership)
	ErrCreatorExists        = fmt.Errorf("%w: group already has a creator", domainerr.ErrDuplicateMembership)
	ErrCannotAccept         = fmt.Errorf("%w: only invitations and join requests can be accepted", domainerr.ErrInvalidTransition)
	ErrNotActive            = fmt.Errorf("%w: membership is not active", domainerr.ErrInvalidTransition)
	ErrNotBanned            = fmt.Errorf("%w: membership is not banned", domainerr.ErrInvalidTransition)
	ErrCreatorImmutable     = fmt.Errorf("%w: the creator membership cannot be changed", domainerr.ErrInvalidTransition)
	ErrConcurrentUpdate     = fmt.Errorf("%w: membership changed concurrently", domainerr.ErrInvalidTransition)
	ErrCreatorNotAssignable = fmt.Errorf("%w: role must be ADMIN or MEMBER", domainerr.ErrInvalidTransition)
	ErrInvalidRole          = fmt.Errorf("%w: role must be ADMIN or MEMBER", domainerr.ErrValidation)
	ErrNotGroupManager      = fmt.Errorf("%w: group creator or admin required", domainerr.ErrForbidden)
	ErrNotInvitee           = fmt.Errorf("%w: only the invited user can accept an invitation", domainerr.ErrForbidden)
)
