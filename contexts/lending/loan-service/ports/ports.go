package ports

import (
	"context"
	"time"

	"bibliotheque/contexts/lending/loan-service/domain/entities"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/kernel/workflow"
)

type LoanFilter struct {
	BorrowerID string
	WorkID     string
	OpenOnly   bool
	Limit      int
	Offset     int
}

// Repository persists loans. CreateLoan reserves one of the capacity copies
// of the work and inserts the loan as one atomic unit; it fails with
// ErrAlreadyBorrowed when the borrower already holds an open loan on the work
// and with ErrNoCopyAvailable when every copy is out. SaveTransition applies
// a version-checked update and releases the copy when the loan is returned.
type Repository interface {
	CreateLoan(ctx context.Context, loan entities.Loan, capacity int, audit workflow.AuditRecord, event contractsv1.Envelope) error
	SaveTransition(ctx context.Context, loan entities.Loan, expectedVersion int64, audit workflow.AuditRecord, event contractsv1.Envelope) error
	GetLoan(ctx context.Context, loanID string) (entities.Loan, error)
	ListLoans(ctx context.Context, filter LoanFilter) ([]entities.Loan, error)
	ListAudit(ctx context.Context, loanID string) ([]workflow.AuditRecord, error)
}

// WorkSnapshot is what lending needs to know about a catalogue work.
type WorkSnapshot struct {
	WorkID   string
	Title    string
	Lendable bool
}

type WorkCatalog interface {
	GetWork(ctx context.Context, workID string) (WorkSnapshot, error)
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event contractsv1.Envelope) error
}

// SweepReporter receives the counts computed by the expiry sweep.
type SweepReporter interface {
	ReportLoanStatuses(counts map[entities.Status]int)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
