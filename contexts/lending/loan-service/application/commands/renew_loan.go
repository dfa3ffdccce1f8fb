package commands

import (
	"context"
	"log/slog"
	"time"

	application "bibliotheque/contexts/lending/loan-service/application"
	"bibliotheque/contexts/lending/loan-service/domain/entities"
	domainerrors "bibliotheque/contexts/lending/loan-service/domain/errors"
	"bibliotheque/contexts/lending/loan-service/ports"
	"bibliotheque/kernel/workflow"
)

// RenewLoanCommand extends an open loan from its current due date.
// ExtraDays 0 selects the policy default. Override lets a librarian renew an
// overdue loan when the policy allows it.
type RenewLoanCommand struct {
	LoanID    string
	ExtraDays int
	Override  bool
	Actor     workflow.Actor
}

type RenewLoanUseCase struct {
	Repository  ports.Repository
	Policy      entities.Policy
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc RenewLoanUseCase) Execute(ctx context.Context, cmd RenewLoanCommand) (entities.Loan, error) {
	logger := application.ResolveLogger(uc.Logger)
	policy := uc.Policy.Normalize()
	extra := cmd.ExtraDays
	if extra == 0 {
		extra = policy.DefaultExtensionDays
	}

	loan, err := transitionRunner{
		repository:  uc.Repository,
		clock:       uc.Clock,
		idGenerator: uc.IDGenerator,
	}.run(ctx, transitionSpec{
		loanID: cmd.LoanID,
		actor:  cmd.Actor,
		action: entities.ActionRenew,
		guards: func(loan entities.Loan, at time.Time) []workflow.Guard {
			return []workflow.Guard{
				ownedBy(loan, cmd.Actor),
				func() error {
					if extra < 1 {
						return domainerrors.ErrInvalidExtension
					}
					return nil
				},
				func() error {
					if !loan.IsOverdue(at) {
						return nil
					}
					if cmd.Override && cmd.Actor.IsLibrarian() && policy.AllowLibrarianOverride {
						return nil
					}
					return domainerrors.ErrLoanOverdue
				},
				func() error {
					if policy.RenewalsExhausted(loan.RenewalCount) {
						return domainerrors.ErrRenewalLimit
					}
					return nil
				},
			}
		},
		mutate: func(loan *entities.Loan, _ time.Time) {
			loan.DueAt = loan.DueAt.Add(time.Duration(extra) * workflow.Day)
			loan.RenewalCount++
		},
	})
	if err != nil {
		logger.Warn("loan renewal rejected",
			"event", "loan_renew_rejected",
			"module", "lending/loan-service",
			"layer", "application",
			"loan_id", cmd.LoanID,
			"actor_id", cmd.Actor.ID,
			"error", err.Error(),
		)
		return entities.Loan{}, err
	}

	logger.Info("loan renewed",
		"event", "loan_renewed",
		"module", "lending/loan-service",
		"layer", "application",
		"loan_id", loan.LoanID,
		"actor_id", cmd.Actor.ID,
		"due_at", loan.DueAt,
		"renewal_count", loan.RenewalCount,
		"override", cmd.Override,
	)
	return loan, nil
}
