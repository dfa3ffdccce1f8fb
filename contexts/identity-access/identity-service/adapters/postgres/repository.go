package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"bibliotheque/contexts/identity-access/identity-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
	"bibliotheque/internal/platform/db"
	"bibliotheque/kernel/workflow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists users and role assignments with gorm. Every method
// resolves its handle through db.Conn so it joins an ambient transaction.
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
	return []any{&userModel{}, &roleAssignmentModel{}}
}

func (r *Repository) CreateUser(ctx context.Context, user entities.User, initial entities.RoleAssignment) error {
	return db.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		row := userModelFromEntity(user)
		if err := tx.Create(&row).Error; err != nil {
			if db.IsUniqueViolation(err) {
				return domainerrors.ErrEmailTaken
			}
			return err
		}
		assignment := roleAssignmentModelFromEntity(initial)
		return tx.Create(&assignment).Error
	})
}

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, error) {
	var row userModel
	err := db.Conn(ctx, r.db).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (entities.User, error) {
	var row userModel
	err := db.Conn(ctx, r.db).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListRoleAssignments(ctx context.Context, userID string) ([]entities.RoleAssignment, error) {
	var rows []roleAssignmentModel
	if err := db.Conn(ctx, r.db).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("granted_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.RoleAssignment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GrantRole(ctx context.Context, assignment entities.RoleAssignment) (bool, error) {
	row := roleAssignmentModelFromEntity(assignment)
	result := db.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "role"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		r.logger.Error("role grant insert failed",
			"event", "identity_role_grant_insert_failed",
			"module", "identity-access/identity-service",
			"layer", "adapter",
			"user_id", row.UserID,
			"role", row.Role,
			"error", result.Error.Error(),
		)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

type userModel struct {
	UserID       string    `gorm:"column:user_id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	DisplayName  string    `gorm:"column:display_name"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string {
	return "identity_users"
}

func userModelFromEntity(item entities.User) userModel {
	row := userModel{
		UserID:       strings.TrimSpace(item.UserID),
		Email:        strings.ToLower(strings.TrimSpace(item.Email)),
		DisplayName:  strings.TrimSpace(item.DisplayName),
		PasswordHash: item.PasswordHash,
		CreatedAt:    item.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m userModel) toEntity() entities.User {
	return entities.User{
		UserID:       m.UserID,
		Email:        m.Email,
		DisplayName:  m.DisplayName,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type roleAssignmentModel struct {
	UserID    string    `gorm:"column:user_id;primaryKey"`
	Role      string    `gorm:"column:role;primaryKey"`
	GrantedBy string    `gorm:"column:granted_by"`
	GrantedAt time.Time `gorm:"column:granted_at"`
}

func (roleAssignmentModel) TableName() string {
	return "identity_role_assignments"
}

func roleAssignmentModelFromEntity(item entities.RoleAssignment) roleAssignmentModel {
	row := roleAssignmentModel{
		UserID:    strings.TrimSpace(item.UserID),
		Role:      string(item.Role),
		GrantedBy: strings.TrimSpace(item.GrantedBy),
		GrantedAt: item.GrantedAt.UTC(),
	}
	if row.GrantedAt.IsZero() {
		row.GrantedAt = time.Now().UTC()
	}
	return row
}

func (m roleAssignmentModel) toEntity() entities.RoleAssignment {
	return entities.RoleAssignment{
		UserID:    m.UserID,
		Role:      workflow.Role(m.Role),
		GrantedBy: m.GrantedBy,
		GrantedAt: m.GrantedAt.UTC(),
	}
}
