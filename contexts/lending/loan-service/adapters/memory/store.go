package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bibliotheque/contexts/lending/loan-service/domain/entities"
	domainerrors "bibliotheque/contexts/lending/loan-service/domain/errors"
	"bibliotheque/contexts/lending/loan-service/ports"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/internal/shared/audit"
	"bibliotheque/internal/shared/outbox"
	"bibliotheque/kernel/workflow"

	"github.com/google/uuid"
)

// Store is the in-memory loan repository. Copy reservation happens under the
// same lock as the insert.
type Store struct {
	mu sync.RWMutex

	loans  map[string]entities.Loan
	audit  *audit.Log
	outbox *outbox.Buffer
}

func NewStore() *Store {
	return &Store{
		loans:  make(map[string]entities.Loan),
		audit:  audit.NewLog(),
		outbox: outbox.NewBuffer(),
	}
}

func (s *Store) CreateLoan(
	_ context.Context,
	loan entities.Loan,
	capacity int,
	record workflow.AuditRecord,
	event contractsv1.Envelope,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.loans[loan.LoanID]; exists {
		return workflow.ErrConflict
	}
	open := 0
	for _, item := range s.loans {
		if !item.IsOpen() || item.WorkID != loan.WorkID {
			continue
		}
		if item.BorrowerID == loan.BorrowerID {
			return domainerrors.ErrAlreadyBorrowed
		}
		open++
	}
	if open >= capacity {
		return domainerrors.ErrNoCopyAvailable
	}
	if err := s.outbox.Append(event); err != nil {
		return err
	}
	s.loans[loan.LoanID] = loan
	s.audit.Append(record)
	return nil
}

func (s *Store) SaveTransition(
	_ context.Context,
	loan entities.Loan,
	expectedVersion int64,
	record workflow.AuditRecord,
	event contractsv1.Envelope,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.loans[loan.LoanID]
	if !exists {
		return domainerrors.ErrLoanNotFound
	}
	if current.Version != expectedVersion {
		return workflow.ErrVersionConflict
	}
	if err := s.outbox.Append(event); err != nil {
		return err
	}
	s.loans[loan.LoanID] = loan
	s.audit.Append(record)
	return nil
}

func (s *Store) GetLoan(_ context.Context, loanID string) (entities.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.loans[strings.TrimSpace(loanID)]
	if !ok {
		return entities.Loan{}, domainerrors.ErrLoanNotFound
	}
	return item, nil
}

func (s *Store) ListLoans(_ context.Context, filter ports.LoanFilter) ([]entities.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Loan, 0)
	for _, item := range s.loans {
		if filter.BorrowerID != "" && item.BorrowerID != filter.BorrowerID {
			continue
		}
		if filter.WorkID != "" && item.WorkID != filter.WorkID {
			continue
		}
		if filter.OpenOnly && !item.IsOpen() {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].DueAt.Equal(items[j].DueAt) {
			return items[i].DueAt.Before(items[j].DueAt)
		}
		return items[i].LoanID < items[j].LoanID
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			return []entities.Loan{}, nil
		}
		items = items[filter.Offset:]
	}
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (s *Store) ListAudit(_ context.Context, loanID string) ([]workflow.AuditRecord, error) {
	return s.audit.List(loanID), nil
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
