package match

import (
	"fmt"

	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

var (
	ErrMatchNotFound = fmt.Errorf("%w: no action recorded for this user", domainerr.ErrNotFound)
	ErrSelfMatch     = fmt.Errorf("%w: cannot like or dislike yourself", domainerr.ErrInvalidTarget)
	ErrInvalidAction = fmt.Errorf("%w: action must be LIKE or DISLIKE", domainerr.ErrValidation)
	ErrInvalidScore  = fmt.Errorf("%w: score must be between %d and %d", domainerr.ErrValidation, MinScore, MaxScore)
)
