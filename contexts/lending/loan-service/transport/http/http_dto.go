package httptransport

import "time"

type BorrowLoanRequest struct {
	WorkID       string `json:"work_id" validate:"required"`
	DurationDays int    `json:"duration_days,omitempty" validate:"omitempty,min=1"`
}

type RenewLoanRequest struct {
	ExtraDays int  `json:"extra_days,omitempty" validate:"omitempty,min=1"`
	Override  bool `json:"override,omitempty"`
}

type LoanDTO struct {
	LoanID        string     `json:"loan_id"`
	WorkID        string     `json:"work_id"`
	WorkTitle     string     `json:"work_title"`
	BorrowerID    string     `json:"borrower_id"`
	State         string     `json:"state"`
	Status        string     `json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	DueAt         time.Time  `json:"due_at"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
	DaysRemaining int        `json:"days_remaining"`
	Expired       bool       `json:"expired"`
	RenewalCount  int        `json:"renewal_count"`
	DelaySeconds  int64      `json:"delay_seconds"`
	Version       int64      `json:"version"`
}

type LoanResponse struct {
	Loan LoanDTO `json:"loan"`
}

type ListLoansResponse struct {
	Items []LoanDTO `json:"items"`
}

type AuditRecordDTO struct {
	AuditID    string    `json:"audit_id"`
	EntityKind string    `json:"entity_kind"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	FromState  string    `json:"from_state"`
	ToState    string    `json:"to_state"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AuditTrailResponse struct {
	Items []AuditRecordDTO `json:"items"`
}
