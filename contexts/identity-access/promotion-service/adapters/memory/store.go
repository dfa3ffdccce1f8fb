package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bibliotheque/contexts/identity-access/promotion-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/promotion-service/domain/errors"
	"bibliotheque/contexts/identity-access/promotion-service/ports"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/internal/shared/audit"
	"bibliotheque/internal/shared/outbox"
	"bibliotheque/kernel/workflow"

	"github.com/google/uuid"
)

type unitKey struct{}

// unit stages the writes of one WithinTransaction call. Staged rows stay
// invisible to other callers until commit.
type unit struct {
	requests map[string]entities.Request
	records  []workflow.AuditRecord
	events   []contractsv1.Envelope
}

func unitFrom(ctx context.Context) (*unit, bool) {
	u, ok := ctx.Value(unitKey{}).(*unit)
	return u, ok
}

// Store is the in-memory promotion repository and transactor.
type Store struct {
	mu sync.RWMutex

	requests map[string]entities.Request
	// claims maps a request id to the open unit that staged a write on it.
	claims map[string]*unit
	audit  *audit.Log
	outbox *outbox.Buffer
}

func NewStore() *Store {
	return &Store{
		requests: make(map[string]entities.Request),
		claims:   make(map[string]*unit),
		audit:    audit.NewLog(),
		outbox:   outbox.NewBuffer(),
	}
}

// WithinTransaction runs fn as one unit. Writes made through this store are
// staged and applied together when fn succeeds. A request staged by an open
// unit is claimed: any other write to it fails with ErrVersionConflict
// instead of waiting. Nested calls join the outer unit.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := unitFrom(ctx); ok {
		return fn(ctx)
	}
	u := &unit{requests: make(map[string]entities.Request)}
	err := fn(context.WithValue(ctx, unitKey{}, u))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		err = s.commit(u)
	}
	for requestID := range u.requests {
		if s.claims[requestID] == u {
			delete(s.claims, requestID)
		}
	}
	return err
}

// commit must be called with s.mu held.
func (s *Store) commit(u *unit) error {
	auditIDs := make([]string, 0, len(u.records))
	for _, record := range u.records {
		auditIDs = append(auditIDs, s.audit.Append(record))
	}
	for i, event := range u.events {
		if err := s.outbox.Append(event); err != nil {
			for _, appended := range u.events[:i] {
				s.outbox.Discard(appended.EventID)
			}
			for j, record := range u.records {
				s.audit.Discard(record.EntityID, auditIDs[j])
			}
			return err
		}
	}
	for requestID, request := range u.requests {
		s.requests[requestID] = request
	}
	return nil
}

// stage must be called with s.mu held.
func (s *Store) stage(u *unit, request entities.Request, record workflow.AuditRecord, event contractsv1.Envelope) {
	u.requests[request.RequestID] = request
	u.records = append(u.records, record)
	u.events = append(u.events, event)
	s.claims[request.RequestID] = u
}

// hasPending reports committed or staged pending requests of requesterID.
// It must be called with s.mu held.
func (s *Store) hasPending(requesterID string) bool {
	for _, item := range s.requests {
		if item.RequesterID == requesterID && item.IsPending() {
			return true
		}
	}
	for requestID, owner := range s.claims {
		staged := owner.requests[requestID]
		if staged.RequesterID == requesterID && staged.IsPending() {
			return true
		}
	}
	return false
}

func (s *Store) CreateRequest(ctx context.Context, request entities.Request, record workflow.AuditRecord, event contractsv1.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.requests[request.RequestID]; exists {
		return workflow.ErrConflict
	}
	if _, claimed := s.claims[request.RequestID]; claimed {
		return workflow.ErrConflict
	}
	if s.hasPending(request.RequesterID) {
		return domainerrors.ErrPendingExists
	}
	if u, ok := unitFrom(ctx); ok {
		s.stage(u, request, record, event)
		return nil
	}
	if err := s.outbox.Append(event); err != nil {
		return err
	}
	s.requests[request.RequestID] = request
	s.audit.Append(record)
	return nil
}

func (s *Store) SaveTransition(
	ctx context.Context,
	request entities.Request,
	expectedVersion int64,
	record workflow.AuditRecord,
	event contractsv1.Envelope,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, inUnit := unitFrom(ctx)
	if owner, claimed := s.claims[request.RequestID]; claimed && owner != u {
		return workflow.ErrVersionConflict
	}
	current, exists := s.lookup(u, request.RequestID)
	if !exists {
		return domainerrors.ErrRequestNotFound
	}
	if current.Version != expectedVersion {
		return workflow.ErrVersionConflict
	}
	if inUnit {
		s.stage(u, request, record, event)
		return nil
	}
	if err := s.outbox.Append(event); err != nil {
		return err
	}
	s.requests[request.RequestID] = request
	s.audit.Append(record)
	return nil
}

// lookup prefers the row staged by u. It must be called with s.mu held.
func (s *Store) lookup(u *unit, requestID string) (entities.Request, bool) {
	if u != nil {
		if staged, ok := u.requests[requestID]; ok {
			return staged, true
		}
	}
	item, ok := s.requests[requestID]
	return item, ok
}

func (s *Store) GetRequest(ctx context.Context, requestID string) (entities.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, _ := unitFrom(ctx)
	item, ok := s.lookup(u, strings.TrimSpace(requestID))
	if !ok {
		return entities.Request{}, domainerrors.ErrRequestNotFound
	}
	return item, nil
}

func (s *Store) ListRequests(_ context.Context, filter ports.RequestFilter) ([]entities.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Request, 0)
	for _, item := range s.requests {
		if filter.RequesterID != "" && item.RequesterID != filter.RequesterID {
			continue
		}
		if filter.State != "" && item.State != filter.State {
			continue
		}
		if filter.DecidedOnly && !item.IsDecided() {
			continue
		}
		items = append(items, item)
	}
	if filter.DecidedOnly {
		sort.Slice(items, func(i, j int) bool {
			return decidedAt(items[i]).After(decidedAt(items[j]))
		})
	} else {
		sort.Slice(items, func(i, j int) bool {
			return items[i].SubmittedAt.Before(items[j].SubmittedAt)
		})
	}
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (s *Store) ListAudit(_ context.Context, requestID string) ([]workflow.AuditRecord, error) {
	return s.audit.List(requestID), nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	rows := s.outbox.ListPending(limit)
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.ID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.outbox.MarkPublished(outboxID, publishedAt)
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func decidedAt(request entities.Request) time.Time {
	if request.DecidedAt == nil {
		return time.Time{}
	}
	return *request.DecidedAt
}
