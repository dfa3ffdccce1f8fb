package commands

import (
	"time"

	"bibliotheque/contexts/lending/loan-service/domain/entities"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/kernel/workflow"
)

const (
	EventLoanBorrowed = "loan.borrowed"
	EventLoanRenewed  = "loan.renewed"
	EventLoanReturned = "loan.returned"
)

var eventTypes = map[workflow.Action]string{
	entities.ActionBorrow: EventLoanBorrowed,
	entities.ActionRenew:  EventLoanRenewed,
	entities.ActionReturn: EventLoanReturned,
}

func newLoanEnvelope(eventID string, step workflow.Step, loan entities.Loan, occurredAt time.Time) (contractsv1.Envelope, error) {
	return contractsv1.NewEnvelope(
		eventID,
		eventTypes[step.Audit.Action],
		"loan-service",
		"loan_id",
		loan.LoanID,
		occurredAt,
		map[string]any{
			"loan_id":       loan.LoanID,
			"work_id":       loan.WorkID,
			"borrower_id":   loan.BorrowerID,
			"from_state":    string(step.From),
			"to_state":      string(step.To),
			"due_at":        loan.DueAt,
			"renewal_count": loan.RenewalCount,
			"actor_id":      step.Audit.ActorID,
			"version":       loan.Version,
		},
	)
}
