package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"bibliotheque/contexts/catalogue-moderation/work-service/domain/entities"
	domainerrors "bibliotheque/contexts/catalogue-moderation/work-service/domain/errors"
	"bibliotheque/contexts/catalogue-moderation/work-service/ports"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/internal/platform/db"
	"bibliotheque/internal/shared/audit"
	"bibliotheque/internal/shared/outbox"
	"bibliotheque/kernel/workflow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	auditTable  = "work_audit"
	outboxTable = "work_outbox"
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
	return []any{&workModel{}, &workDocumentModel{}, &auditModel{}, &outboxModel{}}
}

func (r *Repository) CreateWork(ctx context.Context, work entities.Work, record workflow.AuditRecord, event contractsv1.Envelope) error {
	return db.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		row := workModelFromEntity(work)
		if err := tx.Create(&row).Error; err != nil {
			if db.IsUniqueViolation(err) {
				return workflow.ErrConflict
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
	work entities.Work,
	expectedVersion int64,
	record workflow.AuditRecord,
	event contractsv1.Envelope,
) error {
	return db.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&workModel{}).
			Where("work_id = ?", strings.TrimSpace(work.WorkID)).
			Where("version = ?", expectedVersion).
			Updates(workUpdatesFromEntity(work))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&workModel{}).Where("work_id = ?", work.WorkID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domainerrors.ErrWorkNotFound
			}
			r.logger.Warn("work version conflict",
				"event", "work_version_conflict",
				"module", "catalogue-moderation/work-service",
				"layer", "adapter",
				"work_id", work.WorkID,
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

func (r *Repository) GetWork(ctx context.Context, workID string) (entities.Work, error) {
	var row workModel
	err := db.Conn(ctx, r.db).
		Where("work_id = ?", strings.TrimSpace(workID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Work{}, domainerrors.ErrWorkNotFound
		}
		return entities.Work{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListWorks(ctx context.Context, filter ports.WorkFilter) ([]entities.Work, error) {
	tx := db.Conn(ctx, r.db).Model(&workModel{})
	if filter.State != "" {
		tx = tx.Where("state = ?", string(filter.State))
	}
	if filter.Destination != "" {
		tx = tx.Where("destination = ?", string(filter.Destination))
	}
	if strings.TrimSpace(filter.SubmitterID) != "" {
		tx = tx.Where("submitter_id = ?", strings.TrimSpace(filter.SubmitterID))
	}
	if filter.Category != "" {
		tx = tx.Where("categories LIKE ?", "%,"+string(filter.Category)+",%")
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	var rows []workModel
	if err := tx.Order("submitted_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Work, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListAudit(ctx context.Context, workID string) ([]workflow.AuditRecord, error) {
	return audit.List(db.Conn(ctx, r.db), auditTable, workID)
}

func (r *Repository) CountWorks(ctx context.Context) ([]entities.Count, error) {
	var rows []struct {
		State       string
		Destination string
		Works       int
	}
	if err := db.Conn(ctx, r.db).
		Model(&workModel{}).
		Select("state, destination, COUNT(*) AS works").
		Group("state, destination").
		Scan(&rows).
		Error; err != nil {
		return nil, err
	}
	counts := make([]entities.Count, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, entities.Count{
			State:       workflow.State(row.State),
			Destination: entities.Destination(row.Destination),
			Works:       row.Works,
		})
	}
	return counts, nil
}

func (r *Repository) PutDocument(ctx context.Context, workID string, document []byte) error {
	row := workDocumentModel{
		WorkID:    strings.TrimSpace(workID),
		Document:  append([]byte(nil), document...),
		UpdatedAt: time.Now().UTC(),
	}
	return db.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "work_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
		}).
		Create(&row).
		Error
}

func (r *Repository) GetDocument(ctx context.Context, workID string) ([]byte, error) {
	var row workDocumentModel
	err := db.Conn(ctx, r.db).
		Where("work_id = ?", strings.TrimSpace(workID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNoSourceDocument
		}
		return nil, err
	}
	return row.Document, nil
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

type workModel struct {
	WorkID          string     `gorm:"column:work_id;primaryKey"`
	Title           string     `gorm:"column:title"`
	Author          string     `gorm:"column:author"`
	Content         string     `gorm:"column:content"`
	SubmitterID     string     `gorm:"column:submitter_id;index"`
	State           string     `gorm:"column:state;index"`
	Destination     string     `gorm:"column:destination"`
	Categories      string     `gorm:"column:categories"`
	SubmittedAt     time.Time  `gorm:"column:submitted_at"`
	ReviewStartedAt *time.Time `gorm:"column:review_started_at"`
	DecidedAt       *time.Time `gorm:"column:decided_at"`
	DecidedBy       string     `gorm:"column:decided_by"`
	RejectionReason string     `gorm:"column:rejection_reason"`
	Version         int64      `gorm:"column:version"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (workModel) TableName() string {
	return "works"
}

func workModelFromEntity(item entities.Work) workModel {
	return workModel{
		WorkID:          strings.TrimSpace(item.WorkID),
		Title:           item.Title,
		Author:          item.Author,
		Content:         item.Content,
		SubmitterID:     strings.TrimSpace(item.SubmitterID),
		State:           string(item.State),
		Destination:     string(item.Destination),
		Categories:      encodeCategories(item.Categories),
		SubmittedAt:     item.SubmittedAt.UTC(),
		ReviewStartedAt: db.NormalizeOptionalTime(item.ReviewStartedAt),
		DecidedAt:       db.NormalizeOptionalTime(item.DecidedAt),
		DecidedBy:       item.DecidedBy,
		RejectionReason: item.RejectionReason,
		Version:         item.Version,
		UpdatedAt:       item.UpdatedAt.UTC(),
	}
}

func workUpdatesFromEntity(item entities.Work) map[string]any {
	return map[string]any{
		"content":           item.Content,
		"state":             string(item.State),
		"destination":       string(item.Destination),
		"categories":        encodeCategories(item.Categories),
		"review_started_at": db.NormalizeOptionalTime(item.ReviewStartedAt),
		"decided_at":        db.NormalizeOptionalTime(item.DecidedAt),
		"decided_by":        item.DecidedBy,
		"rejection_reason":  item.RejectionReason,
		"version":           item.Version,
		"updated_at":        item.UpdatedAt.UTC(),
	}
}

func (m workModel) toEntity() entities.Work {
	return entities.Work{
		WorkID:          m.WorkID,
		Title:           m.Title,
		Author:          m.Author,
		Content:         m.Content,
		SubmitterID:     m.SubmitterID,
		State:           workflow.State(m.State),
		Destination:     entities.Destination(m.Destination),
		Categories:      decodeCategories(m.Categories),
		SubmittedAt:     m.SubmittedAt.UTC(),
		ReviewStartedAt: db.NormalizeOptionalTime(m.ReviewStartedAt),
		DecidedAt:       db.NormalizeOptionalTime(m.DecidedAt),
		DecidedBy:       m.DecidedBy,
		RejectionReason: m.RejectionReason,
		Version:         m.Version,
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

// encodeCategories stores codes as ",A,B," so one code matches with LIKE.
func encodeCategories(items []entities.Category) string {
	if len(items) == 0 {
		return ""
	}
	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, string(item))
	}
	return "," + strings.Join(codes, ",") + ","
}

func decodeCategories(raw string) []entities.Category {
	var items []entities.Category
	for _, code := range strings.Split(strings.Trim(raw, ","), ",") {
		if code != "" {
			items = append(items, entities.Category(code))
		}
	}
	return items
}

type workDocumentModel struct {
	WorkID    string    `gorm:"column:work_id;primaryKey"`
	Document  []byte    `gorm:"column:document"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (workDocumentModel) TableName() string {
	return "work_documents"
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
