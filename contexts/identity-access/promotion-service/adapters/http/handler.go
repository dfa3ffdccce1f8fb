package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"bibliotheque/contexts/identity-access/promotion-service/application/commands"
	"bibliotheque/contexts/identity-access/promotion-service/application/queries"
	"bibliotheque/contexts/identity-access/promotion-service/domain/entities"
	"bibliotheque/contexts/identity-access/promotion-service/ports"
	httptransport "bibliotheque/contexts/identity-access/promotion-service/transport/http"
	"bibliotheque/kernel/workflow"
)

type Handler struct {
	Submit  commands.SubmitRequestUseCase
	Cancel  commands.CancelRequestUseCase
	Decide  commands.DecideRequestUseCase
	Queries queries.QueryUseCase
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (h Handler) SubmitHandler(ctx context.Context, actor workflow.Actor, req httptransport.SubmitRequestRequest) (httptransport.PromotionRequestResponse, error) {
	request, err := h.Submit.Execute(ctx, commands.SubmitRequestCommand{Motivation: req.Motivation, Actor: actor})
	if err != nil {
		return httptransport.PromotionRequestResponse{}, err
	}
	return h.single(request), nil
}

func (h Handler) CancelHandler(ctx context.Context, actor workflow.Actor, requestID string) (httptransport.PromotionRequestResponse, error) {
	request, err := h.Cancel.Execute(ctx, commands.CancelRequestCommand{RequestID: requestID, Actor: actor})
	if err != nil {
		return httptransport.PromotionRequestResponse{}, err
	}
	return h.single(request), nil
}

func (h Handler) ApproveHandler(ctx context.Context, actor workflow.Actor, requestID string) (httptransport.PromotionRequestResponse, error) {
	request, err := h.Decide.Approve(ctx, commands.ApproveRequestCommand{RequestID: requestID, Actor: actor})
	if err != nil {
		return httptransport.PromotionRequestResponse{}, err
	}
	return h.single(request), nil
}

func (h Handler) RefuseHandler(
	ctx context.Context,
	actor workflow.Actor,
	requestID string,
	req httptransport.RefuseRequestRequest,
) (httptransport.PromotionRequestResponse, error) {
	request, err := h.Decide.Refuse(ctx, commands.RefuseRequestCommand{
		RequestID: requestID,
		Motif:     req.Motif,
		Actor:     actor,
	})
	if err != nil {
		return httptransport.PromotionRequestResponse{}, err
	}
	return h.single(request), nil
}

func (h Handler) GetRequestHandler(ctx context.Context, actor workflow.Actor, requestID string) (httptransport.PromotionRequestResponse, error) {
	request, err := h.Queries.GetRequest(ctx, requestID, actor)
	if err != nil {
		return httptransport.PromotionRequestResponse{}, err
	}
	return h.single(request), nil
}

func (h Handler) MyRequestsHandler(ctx context.Context, actor workflow.Actor) (httptransport.ListPromotionRequestsResponse, error) {
	return h.list(h.Queries.MyRequests(ctx, actor))
}

func (h Handler) PendingHandler(ctx context.Context, actor workflow.Actor) (httptransport.ListPromotionRequestsResponse, error) {
	return h.list(h.Queries.Pending(ctx, actor))
}

func (h Handler) HistoryHandler(ctx context.Context, actor workflow.Actor, limit int) (httptransport.ListPromotionRequestsResponse, error) {
	return h.list(h.Queries.History(ctx, actor, limit))
}

func (h Handler) StatisticsHandler(ctx context.Context, actor workflow.Actor) (httptransport.StatisticsResponse, error) {
	stats, err := h.Queries.Statistics(ctx, actor)
	if err != nil {
		return httptransport.StatisticsResponse{}, err
	}
	return httptransport.StatisticsResponse{
		Total:         stats.Total,
		Pending:       stats.Pending,
		Approved:      stats.Approved,
		Refused:       stats.Refused,
		Cancelled:     stats.Cancelled,
		MeanDelayDays: stats.MeanDelayDays,
	}, nil
}

func (h Handler) AuditTrailHandler(ctx context.Context, actor workflow.Actor, requestID string) (httptransport.AuditTrailResponse, error) {
	records, err := h.Queries.AuditTrail(ctx, requestID, actor)
	if err != nil {
		return httptransport.AuditTrailResponse{}, err
	}
	items := make([]httptransport.AuditRecordDTO, 0, len(records))
	for _, record := range records {
		items = append(items, httptransport.AuditRecordDTO{
			AuditID:    record.AuditID,
			EntityKind: record.EntityKind,
			EntityID:   record.EntityID,
			Action:     string(record.Action),
			FromState:  string(record.FromState),
			ToState:    string(record.ToState),
			ActorID:    record.ActorID,
			OccurredAt: record.OccurredAt,
		})
	}
	return httptransport.AuditTrailResponse{Items: items}, nil
}

func (h Handler) single(request entities.Request) httptransport.PromotionRequestResponse {
	return httptransport.PromotionRequestResponse{Request: h.mapRequest(request)}
}

func (h Handler) list(requests []entities.Request, err error) (httptransport.ListPromotionRequestsResponse, error) {
	if err != nil {
		return httptransport.ListPromotionRequestsResponse{}, err
	}
	items := make([]httptransport.PromotionRequestDTO, 0, len(requests))
	for _, request := range requests {
		items = append(items, h.mapRequest(request))
	}
	return httptransport.ListPromotionRequestsResponse{Items: items}, nil
}

func (h Handler) mapRequest(request entities.Request) httptransport.PromotionRequestDTO {
	now := time.Now().UTC()
	if h.Clock != nil {
		now = h.Clock.Now().UTC()
	}
	return httptransport.PromotionRequestDTO{
		RequestID:    request.RequestID,
		RequesterID:  request.RequesterID,
		Motivation:   request.Motivation,
		State:        string(request.State),
		SubmittedAt:  request.SubmittedAt,
		DecidedAt:    request.DecidedAt,
		DecidedBy:    request.DecidedBy,
		RefusalMotif: request.RefusalMotif,
		DelaySeconds: int64(request.Delay(now) / time.Second),
		Version:      request.Version,
	}
}
