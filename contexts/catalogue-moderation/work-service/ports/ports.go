package ports

import (
	"context"
	"time"

	"bibliotheque/contexts/catalogue-moderation/work-service/domain/entities"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/kernel/workflow"
)

type WorkFilter struct {
	State       workflow.State
	Destination entities.Destination
	SubmitterID string
	Category    entities.Category
	Limit       int
}

// Repository persists works. Creation and every transition write the work,
// its audit record and its outbox event as one atomic unit. SaveTransition
// only applies when the stored version still equals expectedVersion and
// returns workflow.ErrVersionConflict otherwise.
type Repository interface {
	CreateWork(ctx context.Context, work entities.Work, audit workflow.AuditRecord, event contractsv1.Envelope) error
	SaveTransition(ctx context.Context, work entities.Work, expectedVersion int64, audit workflow.AuditRecord, event contractsv1.Envelope) error
	GetWork(ctx context.Context, workID string) (entities.Work, error)
	ListWorks(ctx context.Context, filter WorkFilter) ([]entities.Work, error)
	ListAudit(ctx context.Context, workID string) ([]workflow.AuditRecord, error)
	CountWorks(ctx context.Context) ([]entities.Count, error)
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

// ConversionOptions tunes the external PDF to markdown converter.
type ConversionOptions struct {
	DPI             int
	Language        string
	LeftMarginRatio float64
}

// Converter turns a scanned document into markdown. It is slow and fallible
// and is never called while a write is in progress.
type Converter interface {
	Convert(ctx context.Context, document []byte, options ConversionOptions) (string, error)
}

// DocumentStore keeps the original document a work was converted from so it
// can be converted again with other options.
type DocumentStore interface {
	PutDocument(ctx context.Context, workID string, document []byte) error
	GetDocument(ctx context.Context, workID string) ([]byte, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
