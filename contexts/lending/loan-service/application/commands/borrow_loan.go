package commands

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

// BorrowLoanCommand opens a loan. DurationDays 0 selects the policy default.
type BorrowLoanCommand struct {
	WorkID       string
	DurationDays int
	Actor        workflow.Actor
}

type BorrowLoanUseCase struct {
	Repository  ports.Repository
	Works       ports.WorkCatalog
	Policy      entities.Policy
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc BorrowLoanUseCase) Execute(ctx context.Context, cmd BorrowLoanCommand) (entities.Loan, error) {
	logger := application.ResolveLogger(uc.Logger)
	policy := uc.Policy.Normalize()

	if strings.TrimSpace(cmd.Actor.ID) == "" {
		return entities.Loan{}, domainerrors.ErrUnauthorizedActor
	}
	if err := entities.Machine.Authorize(entities.ActionBorrow, cmd.Actor); err != nil {
		return entities.Loan{}, err
	}
	duration := cmd.DurationDays
	if duration == 0 {
		duration = policy.DefaultDurationDays
	}
	if duration < 1 || duration > policy.MaxDurationDays {
		return entities.Loan{}, domainerrors.ErrInvalidDuration
	}
	work, err := uc.Works.GetWork(ctx, strings.TrimSpace(cmd.WorkID))
	if err != nil {
		return entities.Loan{}, err
	}

	loanID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Loan{}, err
	}
	now := uc.now()
	step, err := entities.Machine.Fire(workflow.Request{
		EntityID: loanID,
		From:     workflow.Initial,
		Action:   entities.ActionBorrow,
		Actor:    cmd.Actor,
		At:       now,
		Guards: []workflow.Guard{func() error {
			if !work.Lendable {
				return domainerrors.ErrWorkNotLendable
			}
			return nil
		}},
	})
	if err != nil {
		return entities.Loan{}, err
	}

	loan := entities.Loan{
		LoanID:     loanID,
		WorkID:     work.WorkID,
		WorkTitle:  work.Title,
		BorrowerID: cmd.Actor.ID,
		State:      step.To,
		StartedAt:  now,
		DueAt:      now.Add(time.Duration(duration) * workflow.Day),
		Version:    1,
		UpdatedAt:  now,
	}
	if step.Audit.AuditID, err = uc.IDGenerator.NewID(ctx); err != nil {
		return entities.Loan{}, err
	}
	eventID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Loan{}, err
	}
	event, err := newLoanEnvelope(eventID, step, loan, now)
	if err != nil {
		return entities.Loan{}, err
	}
	if err := uc.Repository.CreateLoan(ctx, loan, policy.MaxConcurrentLoans, step.Audit, event); err != nil {
		logger.Warn("loan borrow rejected",
			"event", "loan_borrow_rejected",
			"module", "lending/loan-service",
			"layer", "application",
			"work_id", loan.WorkID,
			"borrower_id", loan.BorrowerID,
			"error", err.Error(),
		)
		return entities.Loan{}, err
	}

	logger.Info("loan opened",
		"event", "loan_borrowed",
		"module", "lending/loan-service",
		"layer", "application",
		"loan_id", loan.LoanID,
		"work_id", loan.WorkID,
		"borrower_id", loan.BorrowerID,
		"due_at", loan.DueAt,
	)
	return loan, nil
}

func (uc BorrowLoanUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
