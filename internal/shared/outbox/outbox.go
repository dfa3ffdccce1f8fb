// Package outbox stores workflow events in the same transaction as the state
// change that produced them. Relay workers read pending rows and publish them
// to the message bus.
package outbox

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	contractsv1 "bibliotheque/contracts/gen/events/v1"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	StatusPending   = "pending"
	StatusPublished = "published"

	defaultBatchSize = 100
)

type Message struct {
	ID           string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// Model is the row layout shared by every context outbox table. Contexts embed
// it in their own model type to pick a table name.
type Model struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at;index"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func newModel(envelope contractsv1.Envelope) (Model, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return Model{}, err
	}
	row := Model{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       StatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row, nil
}

// Append writes one pending row into table using tx.
func Append(tx *gorm.DB, table string, envelope contractsv1.Envelope) error {
	row, err := newModel(envelope)
	if err != nil {
		return err
	}
	return tx.Table(table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error
}

func ListPending(tx *gorm.DB, table string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = defaultBatchSize
	}
	var rows []Model
	if err := tx.Table(table).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toMessage())
	}
	return items, nil
}

func MarkPublished(tx *gorm.DB, table string, outboxID string, publishedAt time.Time) error {
	return tx.Table(table).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       StatusPublished,
			"published_at": publishedAt.UTC(),
		}).
		Error
}

func (m Model) toMessage() Message {
	return Message{
		ID:           m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

// Buffer is the in-memory outbox used by memory stores.
type Buffer struct {
	mu    sync.Mutex
	rows  []Model
	index map[string]int
}

func NewBuffer() *Buffer {
	return &Buffer{index: make(map[string]int)}
}

func (b *Buffer) Append(envelope contractsv1.Envelope) error {
	row, err := newModel(envelope)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.index[row.OutboxID]; exists {
		return nil
	}
	b.index[row.OutboxID] = len(b.rows)
	b.rows = append(b.rows, row)
	return nil
}

// Discard removes a row appended by a unit of work that was rolled back.
func (b *Buffer) Discard(outboxID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	position, ok := b.index[outboxID]
	if !ok {
		return
	}
	b.rows = append(b.rows[:position], b.rows[position+1:]...)
	delete(b.index, outboxID)
	for i := position; i < len(b.rows); i++ {
		b.index[b.rows[i].OutboxID] = i
	}
}

func (b *Buffer) ListPending(limit int) []Message {
	if limit <= 0 {
		limit = defaultBatchSize
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	items := make([]Message, 0)
	for _, row := range b.rows {
		if row.Status != StatusPending {
			continue
		}
		items = append(items, row.toMessage())
		if len(items) >= limit {
			break
		}
	}
	return items
}

func (b *Buffer) MarkPublished(outboxID string, publishedAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	position, ok := b.index[outboxID]
	if !ok {
		return
	}
	at := publishedAt.UTC()
	b.rows[position].Status = StatusPublished
	b.rows[position].PublishedAt = &at
}
