package comment

import (
	"fmt"

	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

var (
	ErrCommentNotFound = fmt.Errorf("%w: comment not found", domainerr.ErrNotFound)
	ErrEmptyContent    = fmt.Errorf("%w: comment content is empty", domainerr.ErrValidation)
	ErrContentTooLong  = fmt.Errorf("%w: comment content exceeds %d characters", domainerr.ErrValidation, MaxContentLength)
)
