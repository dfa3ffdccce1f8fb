package postgresadapter

import (
	"context"
	"testing"
	"time"

	"bibliotheque/contexts/lending/loan-service/domain/entities"
	domainerrors "bibliotheque/contexts/lending/loan-service/domain/errors"
	"bibliotheque/contexts/lending/loan-service/ports"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/internal/platform/db"
	"bibliotheque/kernel/workflow"

	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	database, err := db.Connect(db.Options{Driver: db.DriverSQLite, DSN: "file::memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.DB.AutoMigrate(Models()...))
	return NewRepository(database.DB, nil)
}

var day0 = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func sampleLoan(loanID string, borrowerID string) entities.Loan {
	return entities.Loan{
		LoanID:     loanID,
		WorkID:     "w-1",
		WorkTitle:  "Les Misérables",
		BorrowerID: borrowerID,
		State:      entities.StateOpen,
		StartedAt:  day0,
		DueAt:      day0.Add(14 * workflow.Day),
		Version:    1,
		UpdatedAt:  day0,
	}
}

func record(id string, loanID string) workflow.AuditRecord {
	return workflow.AuditRecord{AuditID: id, EntityKind: entities.EntityKind, EntityID: loanID, OccurredAt: day0}
}

func event(t *testing.T, id string, loanID string) contractsv1.Envelope {
	t.Helper()
	envelope, err := contractsv1.NewEnvelope(id, "loan.borrowed", "loan-service", "loan_id", loanID, day0, map[string]string{"loan_id": loanID})
	require.NoError(t, err)
	return envelope
}

func TestCreateLoanReservesCopies(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateLoan(ctx, sampleLoan("l-1", "b-1"), 2, record("a-1", "l-1"), event(t, "e-1", "l-1")))
	err := repo.CreateLoan(ctx, sampleLoan("l-2", "b-1"), 2, record("a-2", "l-2"), event(t, "e-2", "l-2"))
	require.ErrorIs(t, err, domainerrors.ErrAlreadyBorrowed)
	require.NoError(t, repo.CreateLoan(ctx, sampleLoan("l-3", "b-2"), 2, record("a-3", "l-3"), event(t, "e-3", "l-3")))
	err = repo.CreateLoan(ctx, sampleLoan("l-4", "b-3"), 2, record("a-4", "l-4"), event(t, "e-4", "l-4"))
	require.ErrorIs(t, err, domainerrors.ErrNoCopyAvailable)

	_, err = repo.GetLoan(ctx, "l-4")
	require.ErrorIs(t, err, domainerrors.ErrLoanNotFound)
	pending, err := repo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
}

func TestReturnReleasesCopy(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	loan := sampleLoan("l-1", "b-1")
	require.NoError(t, repo.CreateLoan(ctx, loan, 1, record("a-1", "l-1"), event(t, "e-1", "l-1")))

	returnedAt := day0.Add(3 * workflow.Day)
	loan.State = entities.StateReturned
	loan.ReturnedAt = &returnedAt
	loan.Version = 2
	loan.UpdatedAt = returnedAt
	require.NoError(t, repo.SaveTransition(ctx, loan, 1, record("a-2", "l-1"), event(t, "e-2", "l-1")))

	require.NoError(t, repo.CreateLoan(ctx, sampleLoan("l-2", "b-1"), 1, record("a-3", "l-2"), event(t, "e-3", "l-2")))

	open, err := repo.ListLoans(ctx, ports.LoanFilter{BorrowerID: "b-1", OpenOnly: true})
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, "l-2", open[0].LoanID)

	stored, err := repo.GetLoan(ctx, "l-1")
	require.NoError(t, err)
	require.Equal(t, entities.StateReturned, stored.State)
	require.NotNil(t, stored.ReturnedAt)
	require.True(t, stored.ReturnedAt.Equal(returnedAt))

	trail, err := repo.ListAudit(ctx, "l-1")
	require.NoError(t, err)
	require.Len(t, trail, 2)
}

func TestSaveTransitionRejectsStaleVersion(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	loan := sampleLoan("l-1", "b-1")
	require.NoError(t, repo.CreateLoan(ctx, loan, 1, record("a-1", "l-1"), event(t, "e-1", "l-1")))

	renewed := loan
	renewed.DueAt = loan.DueAt.Add(7 * workflow.Day)
	renewed.RenewalCount = 1
	renewed.Version = 2
	require.NoError(t, repo.SaveTransition(ctx, renewed, 1, record("a-2", "l-1"), event(t, "e-2", "l-1")))

	stale := loan
	stale.State = entities.StateReturned
	stale.Version = 2
	err := repo.SaveTransition(ctx, stale, 1, record("a-3", "l-1"), event(t, "e-3", "l-1"))
	require.ErrorIs(t, err, workflow.ErrVersionConflict)

	stored, err := repo.GetLoan(ctx, "l-1")
	require.NoError(t, err)
	require.Equal(t, entities.StateOpen, stored.State)
	require.Equal(t, 1, stored.RenewalCount)

	err = repo.SaveTransition(ctx, sampleLoan("missing", "b-1"), 1, record("a-4", "missing"), event(t, "e-4", "missing"))
	require.ErrorIs(t, err, domainerrors.ErrLoanNotFound)
}
