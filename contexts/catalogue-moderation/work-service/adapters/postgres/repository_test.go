package postgresadapter

import (
	"context"
	"testing"
	"time"

	"bibliotheque/contexts/catalogue-moderation/work-service/domain/entities"
	domainerrors "bibliotheque/contexts/catalogue-moderation/work-service/domain/errors"
	"bibliotheque/contexts/catalogue-moderation/work-service/ports"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
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

func sampleWork(workID string, at time.Time) entities.Work {
	return entities.Work{
		WorkID:      workID,
		Title:       "Les Misérables",
		Author:      "Victor Hugo",
		Content:     "# Fantine",
		SubmitterID: "member-1",
		State:       entities.StateSubmitted,
		SubmittedAt: at,
		Version:     1,
		UpdatedAt:   at,
	}
}

func sampleEvent(t *testing.T, eventID string, eventType string, workID string, at time.Time) contractsv1.Envelope {
	t.Helper()
	event, err := contractsv1.NewEnvelope(eventID, eventType, "work-service", "work_id", workID, at, map[string]string{"work_id": workID})
	require.NoError(t, err)
	return event
}

func TestCreateAndTransitionWork(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	at := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	work := sampleWork("w-1", at)
	require.NoError(t, repo.CreateWork(ctx, work,
		workflow.AuditRecord{AuditID: "a-1", EntityKind: entities.EntityKind, EntityID: "w-1", Action: entities.ActionSubmit, ToState: entities.StateSubmitted, ActorID: "member-1", OccurredAt: at},
		sampleEvent(t, "e-1", "work.submitted", "w-1", at),
	))

	reviewAt := at.Add(time.Hour)
	work.State = entities.StateInReview
	work.ReviewStartedAt = &reviewAt
	work.Version = 2
	work.UpdatedAt = reviewAt
	require.NoError(t, repo.SaveTransition(ctx, work, 1,
		workflow.AuditRecord{AuditID: "a-2", EntityKind: entities.EntityKind, EntityID: "w-1", Action: entities.ActionStartReview, FromState: entities.StateSubmitted, ToState: entities.StateInReview, ActorID: "lib-1", OccurredAt: reviewAt},
		sampleEvent(t, "e-2", "work.review_started", "w-1", reviewAt),
	))

	stored, err := repo.GetWork(ctx, "w-1")
	require.NoError(t, err)
	require.Equal(t, entities.StateInReview, stored.State)
	require.Equal(t, int64(2), stored.Version)
	require.NotNil(t, stored.ReviewStartedAt)
	require.True(t, stored.ReviewStartedAt.Equal(reviewAt))

	trail, err := repo.ListAudit(ctx, "w-1")
	require.NoError(t, err)
	require.Len(t, trail, 2)
	require.Equal(t, entities.ActionStartReview, trail[1].Action)

	pending, err := repo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.NoError(t, repo.MarkOutboxPublished(ctx, pending[0].OutboxID, reviewAt))
	pending, err = repo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "e-2", pending[0].OutboxID)
}

func TestSaveTransitionDetectsStaleVersion(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	at := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	work := sampleWork("w-1", at)
	require.NoError(t, repo.CreateWork(ctx, work, workflow.AuditRecord{AuditID: "a-1", EntityID: "w-1", OccurredAt: at}, sampleEvent(t, "e-1", "work.submitted", "w-1", at)))

	work.Content = "stale"
	work.Version = 3
	err := repo.SaveTransition(ctx, work, 2, workflow.AuditRecord{AuditID: "a-2", EntityID: "w-1", OccurredAt: at}, sampleEvent(t, "e-2", "work.reconverted", "w-1", at))
	require.ErrorIs(t, err, workflow.ErrVersionConflict)

	err = repo.SaveTransition(ctx, sampleWork("missing", at), 1, workflow.AuditRecord{AuditID: "a-3", EntityID: "missing", OccurredAt: at}, sampleEvent(t, "e-3", "work.reconverted", "missing", at))
	require.ErrorIs(t, err, domainerrors.ErrWorkNotFound)

	trail, err := repo.ListAudit(ctx, "w-1")
	require.NoError(t, err)
	require.Len(t, trail, 1)
	pending, err := repo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestTransitionJoinsAmbientTransaction(t *testing.T) {
	repo, database := newTestRepository(t)
	ctx := context.Background()
	at := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	err := database.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.CreateWork(txCtx, sampleWork("w-1", at), workflow.AuditRecord{AuditID: "a-1", EntityID: "w-1", OccurredAt: at}, sampleEvent(t, "e-1", "work.submitted", "w-1", at)); err != nil {
			return err
		}
		return workflow.ErrConflict
	})
	require.ErrorIs(t, err, workflow.ErrConflict)

	_, err = repo.GetWork(ctx, "w-1")
	require.ErrorIs(t, err, domainerrors.ErrWorkNotFound)
	pending, err := repo.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestListWorksFiltersAndDocuments(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	at := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	published := sampleWork("w-1", at)
	published.State = entities.StateValidated
	published.Destination = entities.DestinationSequestre
	require.NoError(t, repo.CreateWork(ctx, published, workflow.AuditRecord{AuditID: "a-1", EntityID: "w-1", OccurredAt: at}, sampleEvent(t, "e-1", "work.submitted", "w-1", at)))
	other := sampleWork("w-2", at.Add(time.Minute))
	other.SubmitterID = "member-2"
	require.NoError(t, repo.CreateWork(ctx, other, workflow.AuditRecord{AuditID: "a-2", EntityID: "w-2", OccurredAt: at}, sampleEvent(t, "e-2", "work.submitted", "w-2", at)))

	items, err := repo.ListWorks(ctx, ports.WorkFilter{State: entities.StateValidated, Destination: entities.DestinationSequestre})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "w-1", items[0].WorkID)

	items, err = repo.ListWorks(ctx, ports.WorkFilter{SubmitterID: "member-2"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "w-2", items[0].WorkID)

	_, err = repo.GetDocument(ctx, "w-1")
	require.ErrorIs(t, err, domainerrors.ErrNoSourceDocument)
	require.NoError(t, repo.PutDocument(ctx, "w-1", []byte("first")))
	require.NoError(t, repo.PutDocument(ctx, "w-1", []byte("second")))
	document, err := repo.GetDocument(ctx, "w-1")
	require.NoError(t, err)
	require.Equal(t, "second", string(document))
}

func TestCategoryFilterAndCounts(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	at := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	comic := sampleWork("w-bd", at)
	comic.Categories = []entities.Category{"LIVRE_BD", "LIVRE_JEUNESSE"}
	require.NoError(t, repo.CreateWork(ctx, comic,
		workflow.AuditRecord{AuditID: "a-bd", EntityID: "w-bd", OccurredAt: at},
		sampleEvent(t, "e-bd", "work.submitted", "w-bd", at),
	))
	novel := sampleWork("w-roman", at.Add(time.Minute))
	novel.Categories = []entities.Category{"LIVRE_ROMAN"}
	novel.State = entities.StateValidated
	novel.Destination = entities.DestinationFondCommun
	require.NoError(t, repo.CreateWork(ctx, novel,
		workflow.AuditRecord{AuditID: "a-roman", EntityID: "w-roman", OccurredAt: at},
		sampleEvent(t, "e-roman", "work.submitted", "w-roman", at),
	))

	items, err := repo.ListWorks(ctx, ports.WorkFilter{Category: "LIVRE_JEUNESSE"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "w-bd", items[0].WorkID)
	require.Equal(t, []entities.Category{"LIVRE_BD", "LIVRE_JEUNESSE"}, items[0].Categories)

	counts, err := repo.CountWorks(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []entities.Count{
		{State: entities.StateSubmitted, Works: 1},
		{State: entities.StateValidated, Destination: entities.DestinationFondCommun, Works: 1},
	}, counts)
}
