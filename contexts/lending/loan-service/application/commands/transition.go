package commands

import (
	"context"
	"strings"
	"time"

	"bibliotheque/contexts/lending/loan-service/domain/entities"
	domainerrors "bibliotheque/contexts/lending/loan-service/domain/errors"
	"bibliotheque/contexts/lending/loan-service/ports"
	"bibliotheque/kernel/workflow"
)

// transitionRunner loads a loan, fires one action and saves the outcome with
// a version check.
type transitionRunner struct {
	repository  ports.Repository
	clock       ports.Clock
	idGenerator ports.IDGenerator
}

// guards receive the loaded loan and the transition time.
type transitionSpec struct {
	loanID string
	actor  workflow.Actor
	action workflow.Action
	guards func(loan entities.Loan, at time.Time) []workflow.Guard
	mutate func(loan *entities.Loan, at time.Time)
}

func (r transitionRunner) run(ctx context.Context, spec transitionSpec) (entities.Loan, error) {
	if strings.TrimSpace(spec.actor.ID) == "" {
		return entities.Loan{}, domainerrors.ErrUnauthorizedActor
	}
	loan, err := r.repository.GetLoan(ctx, strings.TrimSpace(spec.loanID))
	if err != nil {
		return entities.Loan{}, err
	}

	now := r.now()
	var guards []workflow.Guard
	if spec.guards != nil {
		guards = spec.guards(loan, now)
	}
	step, err := entities.Machine.Fire(workflow.Request{
		EntityID: loan.LoanID,
		From:     loan.State,
		Action:   spec.action,
		Actor:    spec.actor,
		At:       now,
		Guards:   guards,
	})
	if err != nil {
		return entities.Loan{}, err
	}

	expectedVersion := loan.Version
	loan.State = step.To
	if spec.mutate != nil {
		spec.mutate(&loan, now)
	}
	loan.Version++
	loan.UpdatedAt = now

	if step.Audit.AuditID, err = r.idGenerator.NewID(ctx); err != nil {
		return entities.Loan{}, err
	}
	eventID, err := r.idGenerator.NewID(ctx)
	if err != nil {
		return entities.Loan{}, err
	}
	event, err := newLoanEnvelope(eventID, step, loan, now)
	if err != nil {
		return entities.Loan{}, err
	}
	if err := r.repository.SaveTransition(ctx, loan, expectedVersion, step.Audit, event); err != nil {
		return entities.Loan{}, err
	}
	return loan, nil
}

func (r transitionRunner) now() time.Time {
	if r.clock != nil {
		return r.clock.Now().UTC()
	}
	return time.Now().UTC()
}

// ownedBy admits the borrower and librarians.
func ownedBy(loan entities.Loan, actor workflow.Actor) workflow.Guard {
	return func() error {
		if loan.IsBorrowedBy(actor.ID) || actor.IsLibrarian() {
			return nil
		}
		return domainerrors.ErrNotBorrower
	}
}
