package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"bibliotheque/contexts/identity-access/promotion-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/promotion-service/domain/errors"
	"bibliotheque/contexts/identity-access/promotion-service/ports"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/internal/platform/db"
	"bibliotheque/internal/shared/audit"
	"bibliotheque/internal/shared/outbox"
	"bibliotheque/kernel/workflow"

	"gorm.io/gorm"
)

const (
	auditTable  = "promotion_audit"
	outboxTable = "promotion_outbox"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(gdb *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     gdb,
		logger: logger,
	}
}

// Models lists the tables owned by this adapter for schema migration.
func Models() []any {
	return []any{&requestModel{}, &auditModel{}, &outboxModel{}}
}

func (r *Repository) CreateRequest(ctx context.Context, request entities.Request, record workflow.AuditRecord, event contractsv1.Envelope) error {
	return db.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var pending int64
		if err := tx.Model(&requestModel{}).
			Where("requester_id = ? AND state = ?", request.RequesterID, string(entities.StatePending)).
			Count(&pending).
			Error; err != nil {
			return err
		}
		if pending > 0 {
			return domainerrors.ErrPendingExists
		}
		row := requestModelFromEntity(request)
		if err := tx.Create(&row).Error; err != nil {
			if db.IsUniqueViolation(err) {
				return domainerrors.ErrPendingExists
			}
			return err
		}
		if err := audit.Append(tx, auditTable, record); err != nil {
			return err
		}
		return outbox.Append(tx, outboxTable, event)
	})
}

func (r *Repository) SaveTransition(
	ctx context.Context,
	request entities.Request,
	expectedVersion int64,
	record workflow.AuditRecord,
	event contractsv1.Envelope,
) error {
	return db.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&requestModel{}).
			Where("request_id = ?", strings.TrimSpace(request.RequestID)).
			Where("version = ?", expectedVersion).
			Updates(requestUpdatesFromEntity(request))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&requestModel{}).Where("request_id = ?", request.RequestID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domainerrors.ErrRequestNotFound
			}
			r.logger.Warn("promotion request version conflict",
				"event", "promotion_version_conflict",
				"module", "identity-access/promotion-service",
				"layer", "adapter",
				"request_id", request.RequestID,
				"expected_version", expectedVersion,
			)
			return workflow.ErrVersionConflict
		}
		if err := audit.Append(tx, auditTable, record); err != nil {
			return err
		}
		return outbox.Append(tx, outboxTable, event)
	})
}

func (r *Repository) GetRequest(ctx context.Context, requestID string) (entities.Request, error) {
	var row requestModel
	err := db.Conn(ctx, r.db).
		Where("request_id = ?", strings.TrimSpace(requestID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Request{}, domainerrors.ErrRequestNotFound
		}
		return entities.Request{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListRequests(ctx context.Context, filter ports.RequestFilter) ([]entities.Request, error) {
	tx := db.Conn(ctx, r.db).Model(&requestModel{})
	if strings.TrimSpace(filter.RequesterID) != "" {
		tx = tx.Where("requester_id = ?", strings.TrimSpace(filter.RequesterID))
	}
	if filter.State != "" {
		tx = tx.Where("state = ?", string(filter.State))
	}
	if filter.DecidedOnly {
		tx = tx.Where("state IN ?", []string{string(entities.StateApproved), string(entities.StateRefused)}).
			Order("decided_at DESC")
	} else {
		tx = tx.Order("submitted_at ASC")
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	var rows []requestModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Request, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListAudit(ctx context.Context, requestID string) ([]workflow.AuditRecord, error) {
	return audit.List(db.Conn(ctx, r.db), auditTable, requestID)
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	rows, err := outbox.ListPending(db.Conn(ctx, r.db), outboxTable, limit)
	if err != nil {
		return nil, err
	}
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

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	return outbox.MarkPublished(db.Conn(ctx, r.db), outboxTable, outboxID, publishedAt)
}

type requestModel struct {
	RequestID    string     `gorm:"column:request_id;primaryKey"`
	RequesterID  string     `gorm:"column:requester_id;index;index:idx_promotion_pending_requester,unique,where:state = 'pending'"`
	Motivation   string     `gorm:"column:motivation"`
	State        string     `gorm:"column:state;index"`
	SubmittedAt  time.Time  `gorm:"column:submitted_at"`
	DecidedAt    *time.Time `gorm:"column:decided_at"`
	DecidedBy    string     `gorm:"column:decided_by"`
	RefusalMotif string     `gorm:"column:refusal_motif"`
	Version      int64      `gorm:"column:version"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (requestModel) TableName() string {
	return "promotion_requests"
}

func requestModelFromEntity(item entities.Request) requestModel {
	return requestModel{
		RequestID:    strings.TrimSpace(item.RequestID),
		RequesterID:  strings.TrimSpace(item.RequesterID),
		Motivation:   item.Motivation,
		State:        string(item.State),
		SubmittedAt:  item.SubmittedAt.UTC(),
		DecidedAt:    db.NormalizeOptionalTime(item.DecidedAt),
		DecidedBy:    item.DecidedBy,
		RefusalMotif: item.RefusalMotif,
		Version:      item.Version,
		UpdatedAt:    item.UpdatedAt.UTC(),
	}
}

func requestUpdatesFromEntity(item entities.Request) map[string]any {
	return map[string]any{
		"state":         string(item.State),
		"decided_at":    db.NormalizeOptionalTime(item.DecidedAt),
		"decided_by":    item.DecidedBy,
		"refusal_motif": item.RefusalMotif,
		"version":       item.Version,
		"updated_at":    item.UpdatedAt.UTC(),
	}
}

func (m requestModel) toEntity() entities.Request {
	return entities.Request{
		RequestID:    m.RequestID,
		RequesterID:  m.RequesterID,
		Motivation:   m.Motivation,
		State:        workflow.State(m.State),
		SubmittedAt:  m.SubmittedAt.UTC(),
		DecidedAt:    db.NormalizeOptionalTime(m.DecidedAt),
		DecidedBy:    m.DecidedBy,
		RefusalMotif: m.RefusalMotif,
		Version:      m.Version,
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type auditModel struct {
	audit.Model
}

func (auditModel) TableName() string {
	return auditTable
}

type outboxModel struct {
	outbox.Model
}

func (outboxModel) TableName() string {
	return outboxTable
}
