package postgresadapter

import (
	"context"
	"testing"
	"time"

	"bibliotheque/contexts/identity-access/identity-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
	"bibliotheque/internal/platform/db"
	"bibliotheque/kernel/workflow"

	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*Repository, *db.Database) {
	t.Helper()
	database, err := db.Connect(db.Options{Driver: db.DriverSQLite, DSN: "file::memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.DB.AutoMigrate(Models()...))
	return NewRepository(database.DB, nil), database
}

func seedUser(t *testing.T, repo *Repository, userID string, email string) {
	t.Helper()
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateUser(context.Background(), entities.User{
		UserID:       userID,
		Email:        email,
		DisplayName:  userID,
		PasswordHash: "hash",
		CreatedAt:    now,
	}, entities.RoleAssignment{UserID: userID, Role: workflow.RoleMember, GrantedBy: "system", GrantedAt: now}))
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	repo, _ := newTestRepository(t)
	seedUser(t, repo, "u-1", "ada@example.org")

	err := repo.CreateUser(context.Background(), entities.User{UserID: "u-2", Email: "ada@example.org"},
		entities.RoleAssignment{UserID: "u-2", Role: workflow.RoleMember})
	require.ErrorIs(t, err, domainerrors.ErrEmailTaken)

	user, err := repo.GetUserByEmail(context.Background(), "ADA@example.org")
	require.NoError(t, err)
	require.Equal(t, "u-1", user.UserID)

	_, err = repo.GetUser(context.Background(), "missing")
	require.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestGrantRoleIsIdempotent(t *testing.T) {
	repo, _ := newTestRepository(t)
	seedUser(t, repo, "u-1", "ada@example.org")
	assignment := entities.RoleAssignment{UserID: "u-1", Role: workflow.RoleLibrarian, GrantedBy: "lib-1", GrantedAt: time.Now()}

	created, err := repo.GrantRole(context.Background(), assignment)
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.GrantRole(context.Background(), assignment)
	require.NoError(t, err)
	require.False(t, created)

	items, err := repo.ListRoleAssignments(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestGrantRoleJoinsAmbientTransaction(t *testing.T) {
	repo, database := newTestRepository(t)
	seedUser(t, repo, "u-1", "ada@example.org")

	err := database.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if _, err := repo.GrantRole(ctx, entities.RoleAssignment{UserID: "u-1", Role: workflow.RoleLibrarian, GrantedBy: "lib-1"}); err != nil {
			return err
		}
		return workflow.ErrConflict
	})
	require.ErrorIs(t, err, workflow.ErrConflict)

	items, err := repo.ListRoleAssignments(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, workflow.RoleMember, items[0].Role)
}
