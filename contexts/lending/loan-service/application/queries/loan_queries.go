package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "bibliotheque/contexts/lending/loan-service/application"
	"bibliotheque/contexts/lending/loan-service/domain/entities"
	domainerrors "bibliotheque/contexts/lending/loan-service/domain/errors"
	"bibliotheque/contexts/lending/loan-service/ports"
	"bibliotheque/kernel/workflow"
)

const defaultListLimit = 100

// QueryUseCase serves loans with their derived fields computed at read time.
type QueryUseCase struct {
	Repository ports.Repository
	Policy     entities.Policy
	Clock      ports.Clock
	Logger     *slog.Logger
}

// GetLoan shows a loan to its borrower and to librarians; to anyone else it
// does not exist.
func (q QueryUseCase) GetLoan(ctx context.Context, loanID string, actor workflow.Actor) (entities.View, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return entities.View{}, domainerrors.ErrUnauthorizedActor
	}
	loan, err := q.Repository.GetLoan(ctx, strings.TrimSpace(loanID))
	if err != nil {
		return entities.View{}, err
	}
	if !loan.IsBorrowedBy(actor.ID) && !actor.IsLibrarian() {
		return entities.View{}, domainerrors.ErrLoanNotFound
	}
	return q.view(loan), nil
}

// MyLoans lists the open loans of the caller.
func (q QueryUseCase) MyLoans(ctx context.Context, actor workflow.Actor) ([]entities.View, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return nil, domainerrors.ErrUnauthorizedActor
	}
	loans, err := q.Repository.ListLoans(ctx, ports.LoanFilter{
		BorrowerID: actor.ID,
		OpenOnly:   true,
		Limit:      defaultListLimit,
	})
	if err != nil {
		application.ResolveLogger(q.Logger).Error("loan listing failed",
			"event", "loan_list_failed",
			"module", "lending/loan-service",
			"layer", "application",
			"borrower_id", actor.ID,
			"error", err.Error(),
		)
		return nil, err
	}
	items := make([]entities.View, 0, len(loans))
	for _, loan := range loans {
		items = append(items, q.view(loan))
	}
	return items, nil
}

func (q QueryUseCase) AuditTrail(ctx context.Context, loanID string, actor workflow.Actor) ([]workflow.AuditRecord, error) {
	if !actor.IsLibrarian() {
		return nil, workflow.ErrForbidden
	}
	if _, err := q.Repository.GetLoan(ctx, strings.TrimSpace(loanID)); err != nil {
		return nil, err
	}
	return q.Repository.ListAudit(ctx, strings.TrimSpace(loanID))
}

func (q QueryUseCase) view(loan entities.Loan) entities.View {
	return loan.View(q.now(), q.Policy.Normalize().DueSoonWindow)
}

func (q QueryUseCase) now() time.Time {
	if q.Clock != nil {
		return q.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
