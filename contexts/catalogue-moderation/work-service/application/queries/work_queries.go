package queries

import (
	"context"
	"log/slog"
	"strings"

	application "bibliotheque/contexts/catalogue-moderation/work-service/application"
	"bibliotheque/contexts/catalogue-moderation/work-service/domain/entities"
	domainerrors "bibliotheque/contexts/catalogue-moderation/work-service/domain/errors"
	"bibliotheque/contexts/catalogue-moderation/work-service/ports"
	"bibliotheque/kernel/workflow"
)

const defaultListLimit = 100

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// GetWork returns a published work to anyone identified, and an unpublished
// one only to its submitter or a librarian.
func (q QueryUseCase) GetWork(ctx context.Context, workID string, actor workflow.Actor) (entities.Work, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return entities.Work{}, domainerrors.ErrUnauthorizedActor
	}
	work, err := q.Repository.GetWork(ctx, strings.TrimSpace(workID))
	if err != nil {
		return entities.Work{}, err
	}
	if work.IsLendable() || work.SubmitterID == actor.ID || actor.IsLibrarian() {
		return work, nil
	}
	// Hidden works look missing to other members.
	return entities.Work{}, domainerrors.ErrWorkNotFound
}

// ListByState is the librarian moderation queue.
func (q QueryUseCase) ListByState(ctx context.Context, rawState string, actor workflow.Actor) ([]entities.Work, error) {
	if !actor.IsLibrarian() {
		return nil, workflow.ErrForbidden
	}
	filter := ports.WorkFilter{Limit: defaultListLimit}
	if strings.TrimSpace(rawState) != "" {
		state, ok := entities.ParseState(rawState)
		if !ok {
			return nil, domainerrors.ErrInvalidState
		}
		filter.State = state
	}
	return q.Repository.ListWorks(ctx, filter)
}

func (q QueryUseCase) ListSubmittedBy(ctx context.Context, actor workflow.Actor) ([]entities.Work, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return nil, domainerrors.ErrUnauthorizedActor
	}
	return q.Repository.ListWorks(ctx, ports.WorkFilter{SubmitterID: actor.ID, Limit: defaultListLimit})
}

// Catalogue lists validated works of one destination collection.
func (q QueryUseCase) Catalogue(ctx context.Context, rawDestination string) ([]entities.Work, error) {
	destination, ok := entities.ParseDestination(rawDestination)
	if !ok {
		return nil, domainerrors.ErrInvalidDestination
	}
	items, err := q.Repository.ListWorks(ctx, ports.WorkFilter{
		State:       entities.StateValidated,
		Destination: destination,
		Limit:       defaultListLimit,
	})
	if err != nil {
		application.ResolveLogger(q.Logger).Error("catalogue listing failed",
			"event", "work_catalogue_list_failed",
			"module", "catalogue-moderation/work-service",
			"layer", "application",
			"destination", string(destination),
			"error", err.Error(),
		)
		return nil, err
	}
	return items, nil
}

// ListByCategory shows members the published works of a category and
// librarians every work carrying it.
func (q QueryUseCase) ListByCategory(ctx context.Context, rawCategory string, actor workflow.Actor) ([]entities.Work, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return nil, domainerrors.ErrUnauthorizedActor
	}
	category, ok := entities.ParseCategory(rawCategory)
	if !ok {
		return nil, domainerrors.ErrInvalidCategory
	}
	filter := ports.WorkFilter{Category: category, Limit: defaultListLimit}
	if !actor.IsLibrarian() {
		filter.State = entities.StateValidated
	}
	return q.Repository.ListWorks(ctx, filter)
}

type CatalogueStatistics struct {
	Total         int
	ByState       map[workflow.State]int
	ByDestination map[entities.Destination]int
}

// Statistics counts works per state and validated works per destination.
func (q QueryUseCase) Statistics(ctx context.Context) (CatalogueStatistics, error) {
	counts, err := q.Repository.CountWorks(ctx)
	if err != nil {
		application.ResolveLogger(q.Logger).Error("catalogue statistics failed",
			"event", "work_catalogue_statistics_failed",
			"module", "catalogue-moderation/work-service",
			"layer", "application",
			"error", err.Error(),
		)
		return CatalogueStatistics{}, err
	}
	stats := CatalogueStatistics{
		ByState: map[workflow.State]int{
			entities.StateSubmitted: 0,
			entities.StateInReview:  0,
			entities.StateValidated: 0,
			entities.StateRejected:  0,
		},
		ByDestination: map[entities.Destination]int{
			entities.DestinationFondCommun: 0,
			entities.DestinationSequestre:  0,
		},
	}
	for _, count := range counts {
		stats.Total += count.Works
		stats.ByState[count.State] += count.Works
		if count.State == entities.StateValidated && count.Destination != "" {
			stats.ByDestination[count.Destination] += count.Works
		}
	}
	return stats, nil
}

func (q QueryUseCase) AuditTrail(ctx context.Context, workID string, actor workflow.Actor) ([]workflow.AuditRecord, error) {
	if !actor.IsLibrarian() {
		return nil, workflow.ErrForbidden
	}
	if _, err := q.Repository.GetWork(ctx, strings.TrimSpace(workID)); err != nil {
		return nil, err
	}
	return q.Repository.ListAudit(ctx, strings.TrimSpace(workID))
}
