package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "bibliotheque/contexts/lending/loan-service/application"
	"bibliotheque/contexts/lending/loan-service/domain/entities"
	domainerrors "bibliotheque/contexts/lending/loan-service/domain/errors"
	"bibliotheque/contexts/lending/loan-service/ports"
	"bibliotheque/kernel/workflow"
)

type ReturnLoanCommand struct {
	LoanID string
	Actor  workflow.Actor
}

type ReturnLoanUseCase struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute closes the loan and frees its copy. Overdue loans can always be
// returned.
func (uc ReturnLoanUseCase) Execute(ctx context.Context, cmd ReturnLoanCommand) (entities.Loan, error) {
	logger := application.ResolveLogger(uc.Logger)
	loan, err := transitionRunner{
		repository:  uc.Repository,
		clock:       uc.Clock,
		idGenerator: uc.IDGenerator,
	}.run(ctx, transitionSpec{
		loanID: cmd.LoanID,
		actor:  cmd.Actor,
		action: entities.ActionReturn,
		guards: func(loan entities.Loan, _ time.Time) []workflow.Guard {
			return []workflow.Guard{ownedBy(loan, cmd.Actor)}
		},
		mutate: func(loan *entities.Loan, at time.Time) {
			loan.ReturnedAt = &at
		},
	})
	if errors.Is(err, workflow.ErrInvalidTransition) {
		err = domainerrors.ErrAlreadyReturned
	}
	if err != nil {
		logger.Warn("loan return rejected",
			"event", "loan_return_rejected",
			"module", "lending/loan-service",
			"layer", "application",
			"loan_id", cmd.LoanID,
			"actor_id", cmd.Actor.ID,
			"error", err.Error(),
		)
		return entities.Loan{}, err
	}

	logger.Info("loan returned",
		"event", "loan_returned",
		"module", "lending/loan-service",
		"layer", "application",
		"loan_id", loan.LoanID,
		"work_id", loan.WorkID,
		"actor_id", cmd.Actor.ID,
	)
	return loan, nil
}
