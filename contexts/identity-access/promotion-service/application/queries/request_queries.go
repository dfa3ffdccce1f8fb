package queries

import (
	"context"
	"log/slog"
	"strings"

	application "bibliotheque/contexts/identity-access/promotion-service/application"
	"bibliotheque/contexts/identity-access/promotion-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/promotion-service/domain/errors"
	"bibliotheque/contexts/identity-access/promotion-service/ports"
	"bibliotheque/kernel/workflow"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	defaultListLimit    = 200
)

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (q QueryUseCase) GetRequest(ctx context.Context, requestID string, actor workflow.Actor) (entities.Request, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return entities.Request{}, domainerrors.ErrUnauthorizedActor
	}
	request, err := q.Repository.GetRequest(ctx, strings.TrimSpace(requestID))
	if err != nil {
		return entities.Request{}, err
	}
	if request.RequesterID != actor.ID && !actor.IsLibrarian() {
		return entities.Request{}, domainerrors.ErrRequestNotFound
	}
	return request, nil
}

func (q QueryUseCase) MyRequests(ctx context.Context, actor workflow.Actor) ([]entities.Request, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return nil, domainerrors.ErrUnauthorizedActor
	}
	return q.Repository.ListRequests(ctx, ports.RequestFilter{RequesterID: actor.ID, Limit: defaultListLimit})
}

// Pending is the librarian queue, oldest request first.
func (q QueryUseCase) Pending(ctx context.Context, actor workflow.Actor) ([]entities.Request, error) {
	if !actor.IsLibrarian() {
		return nil, workflow.ErrForbidden
	}
	return q.Repository.ListRequests(ctx, ports.RequestFilter{State: entities.StatePending, Limit: defaultListLimit})
}

// History lists decided requests, most recent decision first.
func (q QueryUseCase) History(ctx context.Context, actor workflow.Actor, limit int) ([]entities.Request, error) {
	if !actor.IsLibrarian() {
		return nil, workflow.ErrForbidden
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return q.Repository.ListRequests(ctx, ports.RequestFilter{DecidedOnly: true, Limit: limit})
}

func (q QueryUseCase) Statistics(ctx context.Context, actor workflow.Actor) (entities.Statistics, error) {
	if !actor.IsLibrarian() {
		return entities.Statistics{}, workflow.ErrForbidden
	}
	requests, err := q.Repository.ListRequests(ctx, ports.RequestFilter{})
	if err != nil {
		application.ResolveLogger(q.Logger).Error("promotion statistics failed",
			"event", "promotion_statistics_failed",
			"module", "identity-access/promotion-service",
			"layer", "application",
			"error", err.Error(),
		)
		return entities.Statistics{}, err
	}
	return entities.Summarize(requests), nil
}

func (q QueryUseCase) AuditTrail(ctx context.Context, requestID string, actor workflow.Actor) ([]workflow.AuditRecord, error) {
	if !actor.IsLibrarian() {
		return nil, workflow.ErrForbidden
	}
	if _, err := q.Repository.GetRequest(ctx, strings.TrimSpace(requestID)); err != nil {
		return nil, err
	}
	return q.Repository.ListAudit(ctx, strings.TrimSpace(requestID))
}
