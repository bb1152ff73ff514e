package moderation

import (
	"fmt"

	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

var (
	ErrActionNotFound    = fmt.Errorf("%w: moderation action not found", domainerr.ErrNotFound)
	ErrNotActor          = fmt.Errorf("%w: only the actor can retract a moderation action", domainerr.ErrForbidden)
	ErrCannotTargetSelf  = fmt.Errorf("%w: cannot block or report yourself", domainerr.ErrInvalidTarget)
	ErrNotPendingReport  = fmt.Errorf("%w: only pending reports can be resolved or rejected", domainerr.ErrInvalidTransition)
	ErrInvalidActionType = fmt.Errorf("%w: action type must be BLOCK or REPORT", domainerr.ErrValidation)
	ErrInvalidStatus     = fmt.Errorf("%w: status must be PENDING, RESOLVED or REJECTED", domainerr.ErrValidation)
)
