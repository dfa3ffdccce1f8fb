package errors

import (
	"fmt"

	"bibliotheque/kernel/workflow"
)

var (
	ErrLoanNotFound      = fmt.Errorf("%w: loan not found", workflow.ErrNotFound)
	ErrWorkNotFound      = fmt.Errorf("%w: work not found", workflow.ErrNotFound)
	ErrWorkNotLendable   = fmt.Errorf("%w: work is not published", workflow.ErrPreconditionFailed)
	ErrInvalidDuration   = fmt.Errorf("%w: duration is out of range", workflow.ErrValidation)
	ErrInvalidExtension  = fmt.Errorf("%w: extension must be positive", workflow.ErrValidation)
	ErrAlreadyBorrowed   = fmt.Errorf("%w: work is already borrowed by this member", workflow.ErrConflict)
	ErrNoCopyAvailable   = fmt.Errorf("%w: no copy of the work is available", workflow.ErrConflict)
	ErrAlreadyReturned   = fmt.Errorf("%w: loan is already returned", workflow.ErrConflict)
	ErrLoanOverdue       = fmt.Errorf("%w: overdue loans cannot be renewed", workflow.ErrForbidden)
	ErrNotBorrower       = fmt.Errorf("%w: only the borrower or a librarian may act on this loan", workflow.ErrForbidden)
	ErrRenewalLimit      = fmt.Errorf("%w: renewal limit reached", workflow.ErrPreconditionFailed)
	ErrUnauthorizedActor = fmt.Errorf("%w: actor is required", workflow.ErrUnauthorized)
)
