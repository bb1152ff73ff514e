package keyword

import (
	"fmt"

	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

var (
	ErrKeywordExists      = fmt.Errorf("%w: keyword already exists in this category", domainerr.ErrDuplicateRelation)
	ErrKeywordNotFound    = fmt.Errorf("%w: keyword not found", domainerr.ErrNotFound)
	ErrAssignmentNotFound = fmt.Errorf("%w: tag assignment not found", domainerr.ErrNotFound)
	ErrEmptyName          = fmt.Errorf("%w: keyword name must not be blank", domainerr.ErrValidation)
)
