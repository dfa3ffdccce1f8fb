package errors

import (
	"fmt"

	"bibliotheque/kernel/workflow"
)

var (
	ErrWorkNotFound       = fmt.Errorf("%w: work not found", workflow.ErrNotFound)
	ErrTitleRequired      = fmt.Errorf("%w: title is required", workflow.ErrValidation)
	ErrInvalidDestination = fmt.Errorf("%w: destination must be fond_commun or sequestre", workflow.ErrValidation)
	ErrMotifRequired      = fmt.Errorf("%w: rejection motif is required", workflow.ErrValidation)
	ErrEmptyDocument      = fmt.Errorf("%w: source document is empty", workflow.ErrValidation)
	ErrInvalidState       = fmt.Errorf("%w: unknown work state", workflow.ErrValidation)
	ErrNoCategories       = fmt.Errorf("%w: at least one category is required", workflow.ErrValidation)
	ErrInvalidCategory    = fmt.Errorf("%w: unknown category", workflow.ErrValidation)
	ErrNotAwaitingReview  = fmt.Errorf("%w: work is not awaiting review", workflow.ErrConflict)
	ErrNoSourceDocument   = fmt.Errorf("%w: work has no source document to convert", workflow.ErrPreconditionFailed)
	ErrConversionFailed   = fmt.Errorf("%w: document conversion failed", workflow.ErrConversionFailed)
	ErrUnauthorizedActor  = fmt.Errorf("%w: actor is required", workflow.ErrUnauthorized)
)
