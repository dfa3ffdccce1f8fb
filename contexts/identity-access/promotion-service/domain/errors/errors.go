package errors

import (
	"fmt"

	"bibliotheque/kernel/workflow"
)

var (
	ErrRequestNotFound    = fmt.Errorf("%w: promotion request not found", workflow.ErrNotFound)
	ErrMotivationTooShort = fmt.Errorf("%w: motivation must contain at least 10 characters", workflow.ErrValidation)
	ErrMotifTooShort      = fmt.Errorf("%w: refusal motif must contain at least 5 characters", workflow.ErrValidation)
	ErrInvalidState       = fmt.Errorf("%w: unknown request state", workflow.ErrValidation)
	ErrAlreadyLibrarian   = fmt.Errorf("%w: requester is already a librarian", workflow.ErrPreconditionFailed)
	ErrPendingExists      = fmt.Errorf("%w: a pending request already exists", workflow.ErrConflict)
	ErrNotRequester       = fmt.Errorf("%w: only the requester may cancel the request", workflow.ErrForbidden)
	ErrRoleGrantFailed    = fmt.Errorf("%w: librarian role could not be granted", workflow.ErrPreconditionFailed)
	ErrUnauthorizedActor  = fmt.Errorf("%w: actor is required", workflow.ErrUnauthorized)
)
