package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bibliotheque/contexts/catalogue-moderation/work-service/domain/entities"
	domainerrors "bibliotheque/contexts/catalogue-moderation/work-service/domain/errors"
	"bibliotheque/contexts/catalogue-moderation/work-service/ports"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/internal/shared/audit"
	"bibliotheque/internal/shared/outbox"
	"bibliotheque/kernel/workflow"

	"github.com/google/uuid"
)

// Store is the in-memory work repository. It implements the repository,
// outbox, document, clock and id generator ports.
type Store struct {
	mu sync.RWMutex

	works     map[string]entities.Work
	documents map[string][]byte
	audit     *audit.Log
	outbox    *outbox.Buffer
}

func NewStore(seed []entities.Work) *Store {
	works := make(map[string]entities.Work, len(seed))
	for _, item := range seed {
		works[item.WorkID] = item
	}
	return &Store{
		works:     works,
		documents: make(map[string][]byte),
		audit:     audit.NewLog(),
		outbox:    outbox.NewBuffer(),
	}
}

func (s *Store) CreateWork(_ context.Context, work entities.Work, record workflow.AuditRecord, event contractsv1.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.works[work.WorkID]; exists {
		return workflow.ErrConflict
	}
	if err := s.outbox.Append(event); err != nil {
		return err
	}
	s.works[work.WorkID] = work
	s.audit.Append(record)
	return nil
}

func (s *Store) SaveTransition(
	_ context.Context,
	work entities.Work,
	expectedVersion int64,
	record workflow.AuditRecord,
	event contractsv1.Envelope,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.works[work.WorkID]
	if !exists {
		return domainerrors.ErrWorkNotFound
	}
	if current.Version != expectedVersion {
		return workflow.ErrVersionConflict
	}
	if err := s.outbox.Append(event); err != nil {
		return err
	}
	s.works[work.WorkID] = work
	s.audit.Append(record)
	return nil
}

func (s *Store) GetWork(_ context.Context, workID string) (entities.Work, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.works[strings.TrimSpace(workID)]
	if !ok {
		return entities.Work{}, domainerrors.ErrWorkNotFound
	}
	return item, nil
}

func (s *Store) ListWorks(_ context.Context, filter ports.WorkFilter) ([]entities.Work, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Work, 0)
	for _, item := range s.works {
		if filter.State != "" && item.State != filter.State {
			continue
		}
		if filter.Destination != "" && item.Destination != filter.Destination {
			continue
		}
		if filter.SubmitterID != "" && item.SubmitterID != filter.SubmitterID {
			continue
		}
		if filter.Category != "" && !item.HasCategory(filter.Category) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SubmittedAt.Before(items[j].SubmittedAt)
	})
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (s *Store) ListAudit(_ context.Context, workID string) ([]workflow.AuditRecord, error) {
	return s.audit.List(workID), nil
}

func (s *Store) CountWorks(_ context.Context) ([]entities.Count, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type key struct {
		state       workflow.State
		destination entities.Destination
	}
	totals := make(map[key]int)
	for _, item := range s.works {
		totals[key{state: item.State, destination: item.Destination}]++
	}
	counts := make([]entities.Count, 0, len(totals))
	for k, works := range totals {
		counts = append(counts, entities.Count{State: k.state, Destination: k.destination, Works: works})
	}
	return counts, nil
}

func (s *Store) PutDocument(_ context.Context, workID string, document []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[workID] = append([]byte(nil), document...)
	return nil
}

func (s *Store) GetDocument(_ context.Context, workID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	document, ok := s.documents[workID]
	if !ok {
		return nil, domainerrors.ErrNoSourceDocument
	}
	return append([]byte(nil), document...), nil
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
