// Package audit persists the immutable transition records produced by the
// workflow engine.
package audit

import (
	"sort"
	"strings"
	"sync"
	"time"

	"bibliotheque/kernel/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is embedded by each context audit table.
type Model struct {
	AuditID    string    `gorm:"column:audit_id;primaryKey"`
	EntityKind string    `gorm:"column:entity_kind"`
	EntityID   string    `gorm:"column:entity_id;index"`
	Action     string    `gorm:"column:action"`
	FromState  string    `gorm:"column:from_state"`
	ToState    string    `gorm:"column:to_state"`
	ActorID    string    `gorm:"column:actor_id"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
}

func newModel(record workflow.AuditRecord) Model {
	row := Model{
		AuditID:    strings.TrimSpace(record.AuditID),
		EntityKind: record.EntityKind,
		EntityID:   strings.TrimSpace(record.EntityID),
		Action:     string(record.Action),
		FromState:  string(record.FromState),
		ToState:    string(record.ToState),
		ActorID:    strings.TrimSpace(record.ActorID),
		OccurredAt: record.OccurredAt.UTC(),
	}
	if row.AuditID == "" {
		row.AuditID = uuid.NewString()
	}
	if row.OccurredAt.IsZero() {
		row.OccurredAt = time.Now().UTC()
	}
	return row
}

func (m Model) toRecord() workflow.AuditRecord {
	return workflow.AuditRecord{
		AuditID:    m.AuditID,
		EntityKind: m.EntityKind,
		EntityID:   m.EntityID,
		Action:     workflow.Action(m.Action),
		FromState:  workflow.State(m.FromState),
		ToState:    workflow.State(m.ToState),
		ActorID:    m.ActorID,
		OccurredAt: m.OccurredAt.UTC(),
	}
}

func Append(tx *gorm.DB, table string, record workflow.AuditRecord) error {
	row := newModel(record)
	return tx.Table(table).Create(&row).Error
}

// List returns the records of one entity in chronological order.
func List(tx *gorm.DB, table string, entityID string) ([]workflow.AuditRecord, error) {
	var rows []Model
	if err := tx.Table(table).
		Where("entity_id = ?", strings.TrimSpace(entityID)).
		Order("occurred_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]workflow.AuditRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toRecord())
	}
	return items, nil
}

// Log is the in-memory audit trail used by memory stores.
type Log struct {
	mu       sync.RWMutex
	byEntity map[string][]Model
}

func NewLog() *Log {
	return &Log{byEntity: make(map[string][]Model)}
}

// Append records one entry and returns its id so a rolled back unit of work
// can discard it.
func (l *Log) Append(record workflow.AuditRecord) string {
	row := newModel(record)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byEntity[row.EntityID] = append(l.byEntity[row.EntityID], row)
	return row.AuditID
}

func (l *Log) Discard(entityID string, auditID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rows := l.byEntity[entityID]
	for i, row := range rows {
		if row.AuditID == auditID {
			l.byEntity[entityID] = append(rows[:i], rows[i+1:]...)
			return
		}
	}
}

func (l *Log) List(entityID string) []workflow.AuditRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rows := l.byEntity[strings.TrimSpace(entityID)]
	items := make([]workflow.AuditRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toRecord())
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OccurredAt.Before(items[j].OccurredAt)
	})
	return items
}
