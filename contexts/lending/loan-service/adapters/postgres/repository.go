package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"bibliotheque/contexts/lending/loan-service/domain/entities"
	domainerrors "bibliotheque/contexts/lending/loan-service/domain/errors"
	"bibliotheque/contexts/lending/loan-service/ports"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/internal/platform/db"
	"bibliotheque/internal/shared/audit"
	"bibliotheque/internal/shared/outbox"
	"bibliotheque/kernel/workflow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	auditTable  = "loan_audit"
	outboxTable = "loan_outbox"
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
	return []any{&loanModel{}, &inventoryModel{}, &auditModel{}, &outboxModel{}}
}

// CreateLoan reserves a copy with a conditional increment on the work's
// inventory row, then inserts the loan. The partial unique index on open
// (work, borrower) pairs backs the explicit check.
func (r *Repository) CreateLoan(
	ctx context.Context,
	loan entities.Loan,
	capacity int,
	record workflow.AuditRecord,
	event contractsv1.Envelope,
) error {
	return db.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var held int64
		if err := tx.Model(&loanModel{}).
			Where("work_id = ? AND borrower_id = ? AND state = ?", loan.WorkID, loan.BorrowerID, string(entities.StateOpen)).
			Count(&held).
			Error; err != nil {
			return err
		}
		if held > 0 {
			return domainerrors.ErrAlreadyBorrowed
		}

		seed := inventoryModel{WorkID: loan.WorkID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "work_id"}},
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return err
		}
		reserved := tx.Model(&inventoryModel{}).
			Where("work_id = ? AND open_loans < ?", loan.WorkID, capacity).
			Update("open_loans", gorm.Expr("open_loans + 1"))
		if reserved.Error != nil {
			return reserved.Error
		}
		if reserved.RowsAffected == 0 {
			return domainerrors.ErrNoCopyAvailable
		}

		row := loanModelFromEntity(loan)
		if err := tx.Create(&row).Error; err != nil {
			if db.IsUniqueViolation(err) {
				return domainerrors.ErrAlreadyBorrowed
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
	loan entities.Loan,
	expectedVersion int64,
	record workflow.AuditRecord,
	event contractsv1.Envelope,
) error {
	return db.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var current loanModel
		if err := tx.Where("loan_id = ?", strings.TrimSpace(loan.LoanID)).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrLoanNotFound
			}
			return err
		}

		result := tx.Model(&loanModel{}).
			Where("loan_id = ?", current.LoanID).
			Where("version = ?", expectedVersion).
			Updates(loanUpdatesFromEntity(loan))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			r.logger.Warn("loan version conflict",
				"event", "loan_version_conflict",
				"module", "lending/loan-service",
				"layer", "adapter",
				"loan_id", loan.LoanID,
				"expected_version", expectedVersion,
			)
			return workflow.ErrVersionConflict
		}

		if current.State == string(entities.StateOpen) && !loan.IsOpen() {
			if err := tx.Model(&inventoryModel{}).
				Where("work_id = ? AND open_loans > 0", current.WorkID).
				Update("open_loans", gorm.Expr("open_loans - 1")).
				Error; err != nil {
				return err
			}
		}
		if err := audit.Append(tx, auditTable, record); err != nil {
			return err
		}
		return outbox.Append(tx, outboxTable, event)
	})
}

func (r *Repository) GetLoan(ctx context.Context, loanID string) (entities.Loan, error) {
	var row loanModel
	err := db.Conn(ctx, r.db).
		Where("loan_id = ?", strings.TrimSpace(loanID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Loan{}, domainerrors.ErrLoanNotFound
		}
		return entities.Loan{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListLoans(ctx context.Context, filter ports.LoanFilter) ([]entities.Loan, error) {
	tx := db.Conn(ctx, r.db).Model(&loanModel{})
	if strings.TrimSpace(filter.BorrowerID) != "" {
		tx = tx.Where("borrower_id = ?", strings.TrimSpace(filter.BorrowerID))
	}
	if strings.TrimSpace(filter.WorkID) != "" {
		tx = tx.Where("work_id = ?", strings.TrimSpace(filter.WorkID))
	}
	if filter.OpenOnly {
		tx = tx.Where("state = ?", string(entities.StateOpen))
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		tx = tx.Offset(filter.Offset)
	}

	var rows []loanModel
	if err := tx.Order("due_at ASC").Order("loan_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Loan, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListAudit(ctx context.Context, loanID string) ([]workflow.AuditRecord, error) {
	return audit.List(db.Conn(ctx, r.db), auditTable, loanID)
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

type loanModel struct {
	LoanID       string     `gorm:"column:loan_id;primaryKey"`
	WorkID       string     `gorm:"column:work_id;index:idx_loans_open_pair,unique,where:state = 'open'"`
	WorkTitle    string     `gorm:"column:work_title"`
	BorrowerID   string     `gorm:"column:borrower_id;index;index:idx_loans_open_pair,unique,where:state = 'open'"`
	State        string     `gorm:"column:state;index"`
	StartedAt    time.Time  `gorm:"column:started_at"`
	DueAt        time.Time  `gorm:"column:due_at;index"`
	ReturnedAt   *time.Time `gorm:"column:returned_at"`
	RenewalCount int        `gorm:"column:renewal_count"`
	Version      int64      `gorm:"column:version"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (loanModel) TableName() string {
	return "loans"
}

func loanModelFromEntity(item entities.Loan) loanModel {
	return loanModel{
		LoanID:       strings.TrimSpace(item.LoanID),
		WorkID:       strings.TrimSpace(item.WorkID),
		WorkTitle:    item.WorkTitle,
		BorrowerID:   strings.TrimSpace(item.BorrowerID),
		State:        string(item.State),
		StartedAt:    item.StartedAt.UTC(),
		DueAt:        item.DueAt.UTC(),
		ReturnedAt:   db.NormalizeOptionalTime(item.ReturnedAt),
		RenewalCount: item.RenewalCount,
		Version:      item.Version,
		UpdatedAt:    item.UpdatedAt.UTC(),
	}
}

func loanUpdatesFromEntity(item entities.Loan) map[string]any {
	return map[string]any{
		"state":         string(item.State),
		"due_at":        item.DueAt.UTC(),
		"returned_at":   db.NormalizeOptionalTime(item.ReturnedAt),
		"renewal_count": item.RenewalCount,
		"version":       item.Version,
		"updated_at":    item.UpdatedAt.UTC(),
	}
}

func (m loanModel) toEntity() entities.Loan {
	return entities.Loan{
		LoanID:       m.LoanID,
		WorkID:       m.WorkID,
		WorkTitle:    m.WorkTitle,
		BorrowerID:   m.BorrowerID,
		State:        workflow.State(m.State),
		StartedAt:    m.StartedAt.UTC(),
		DueAt:        m.DueAt.UTC(),
		ReturnedAt:   db.NormalizeOptionalTime(m.ReturnedAt),
		RenewalCount: m.RenewalCount,
		Version:      m.Version,
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// inventoryModel counts the open loans of one work.
type inventoryModel struct {
	WorkID    string `gorm:"column:work_id;primaryKey"`
	OpenLoans int    `gorm:"column:open_loans;not null;default:0"`
}

func (inventoryModel) TableName() string {
	return "loan_work_inventory"
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
