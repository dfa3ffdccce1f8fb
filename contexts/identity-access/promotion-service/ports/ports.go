package ports

import (
	"context"
	"time"

	"bibliotheque/contexts/identity-access/promotion-service/domain/entities"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/kernel/workflow"
)

// RequestFilter selects requests. DecidedOnly keeps approved and refused
// ones, newest decision first.
type RequestFilter struct {
	RequesterID string
	State       workflow.State
	DecidedOnly bool
	Limit       int
}

// Repository persists promotion requests. CreateRequest fails with
// ErrPendingExists when the requester already has a pending request.
// SaveTransition is version-checked and writes the audit record and outbox
// event in the same unit.
type Repository interface {
	CreateRequest(ctx context.Context, request entities.Request, audit workflow.AuditRecord, event contractsv1.Envelope) error
	SaveTransition(ctx context.Context, request entities.Request, expectedVersion int64, audit workflow.AuditRecord, event contractsv1.Envelope) error
	GetRequest(ctx context.Context, requestID string) (entities.Request, error)
	ListRequests(ctx context.Context, filter RequestFilter) ([]entities.Request, error)
	ListAudit(ctx context.Context, requestID string) ([]workflow.AuditRecord, error)
}

// Transactor runs fn as one atomic unit. Repositories reached through the
// ctx passed to fn join that unit.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RoleGranter grants the librarian role through the identity provider.
type RoleGranter interface {
	GrantLibrarian(ctx context.Context, userID string, grantedBy string) error
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

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
