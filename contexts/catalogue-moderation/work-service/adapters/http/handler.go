package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "bibliotheque/contexts/catalogue-moderation/work-service/application"
	"bibliotheque/contexts/catalogue-moderation/work-service/application/commands"
	"bibliotheque/contexts/catalogue-moderation/work-service/application/queries"
	"bibliotheque/contexts/catalogue-moderation/work-service/domain/entities"
	"bibliotheque/contexts/catalogue-moderation/work-service/ports"
	httptransport "bibliotheque/contexts/catalogue-moderation/work-service/transport/http"
	"bibliotheque/kernel/workflow"
)

// Handler maps HTTP DTOs to work commands and queries.
type Handler struct {
	SubmitWork commands.SubmitWorkUseCase
	Moderate   commands.ModerateWorkUseCase
	Reconvert  commands.ReconvertWorkUseCase
	Queries    queries.QueryUseCase
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (h Handler) SubmitWorkHandler(ctx context.Context, actor workflow.Actor, req httptransport.SubmitWorkRequest) (httptransport.WorkResponse, error) {
	item, err := h.SubmitWork.Execute(ctx, commands.SubmitWorkCommand{
		Title:   req.Title,
		Author:  req.Author,
		Content: req.Content,
		Actor:   actor,
	})
	if err != nil {
		return httptransport.WorkResponse{}, err
	}
	return httptransport.WorkResponse{Work: h.mapWork(item, true)}, nil
}

func (h Handler) SubmitDocumentHandler(ctx context.Context, actor workflow.Actor, req httptransport.SubmitDocumentRequest) (httptransport.WorkResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http document submission received",
		"event", "work_http_document_received",
		"module", "catalogue-moderation/work-service",
		"layer", "transport",
		"submitter_id", actor.ID,
		"document_bytes", len(req.Document),
	)
	item, err := h.SubmitWork.ExecuteDocument(ctx, commands.SubmitDocumentCommand{
		Title:    req.Title,
		Author:   req.Author,
		Document: req.Document,
		Options:  mapOptions(req.Options),
		Actor:    actor,
	})
	if err != nil {
		return httptransport.WorkResponse{}, err
	}
	return httptransport.WorkResponse{Work: h.mapWork(item, true)}, nil
}

func (h Handler) StartReviewHandler(ctx context.Context, actor workflow.Actor, workID string) (httptransport.WorkResponse, error) {
	item, err := h.Moderate.StartReview(ctx, commands.StartReviewCommand{WorkID: workID, Actor: actor})
	if err != nil {
		return httptransport.WorkResponse{}, err
	}
	return httptransport.WorkResponse{Work: h.mapWork(item, false)}, nil
}

func (h Handler) ValidateWorkHandler(
	ctx context.Context,
	actor workflow.Actor,
	workID string,
	req httptransport.ValidateWorkRequest,
) (httptransport.WorkResponse, error) {
	item, err := h.Moderate.Validate(ctx, commands.ValidateWorkCommand{
		WorkID:      workID,
		Destination: req.Destination,
		Actor:       actor,
	})
	if err != nil {
		return httptransport.WorkResponse{}, err
	}
	return httptransport.WorkResponse{Work: h.mapWork(item, false)}, nil
}

func (h Handler) RejectWorkHandler(
	ctx context.Context,
	actor workflow.Actor,
	workID string,
	req httptransport.RejectWorkRequest,
) (httptransport.WorkResponse, error) {
	item, err := h.Moderate.Reject(ctx, commands.RejectWorkCommand{
		WorkID: workID,
		Motif:  req.Motif,
		Actor:  actor,
	})
	if err != nil {
		return httptransport.WorkResponse{}, err
	}
	return httptransport.WorkResponse{Work: h.mapWork(item, false)}, nil
}

func (h Handler) ClassifyWorkHandler(
	ctx context.Context,
	actor workflow.Actor,
	workID string,
	req httptransport.ClassifyWorkRequest,
) (httptransport.WorkResponse, error) {
	item, err := h.Moderate.Classify(ctx, commands.ClassifyWorkCommand{
		WorkID:     workID,
		Categories: req.Categories,
		Actor:      actor,
	})
	if err != nil {
		return httptransport.WorkResponse{}, err
	}
	return httptransport.WorkResponse{Work: h.mapWork(item, false)}, nil
}

func (h Handler) ReconvertWorkHandler(
	ctx context.Context,
	actor workflow.Actor,
	workID string,
	req httptransport.ReconvertWorkRequest,
) (httptransport.WorkResponse, error) {
	item, err := h.Reconvert.Execute(ctx, commands.ReconvertWorkCommand{
		WorkID:   workID,
		Document: req.Document,
		Options:  mapOptions(req.Options),
		Actor:    actor,
	})
	if err != nil {
		return httptransport.WorkResponse{}, err
	}
	return httptransport.WorkResponse{Work: h.mapWork(item, true)}, nil
}

func (h Handler) GetWorkHandler(ctx context.Context, actor workflow.Actor, workID string) (httptransport.WorkResponse, error) {
	item, err := h.Queries.GetWork(ctx, workID, actor)
	if err != nil {
		return httptransport.WorkResponse{}, err
	}
	return httptransport.WorkResponse{Work: h.mapWork(item, true)}, nil
}

func (h Handler) ListWorksHandler(ctx context.Context, actor workflow.Actor, state string) (httptransport.ListWorksResponse, error) {
	items, err := h.Queries.ListByState(ctx, state, actor)
	if err != nil {
		return httptransport.ListWorksResponse{}, err
	}
	return h.mapList(items), nil
}

func (h Handler) MyWorksHandler(ctx context.Context, actor workflow.Actor) (httptransport.ListWorksResponse, error) {
	items, err := h.Queries.ListSubmittedBy(ctx, actor)
	if err != nil {
		return httptransport.ListWorksResponse{}, err
	}
	return h.mapList(items), nil
}

func (h Handler) CatalogueHandler(ctx context.Context, destination string) (httptransport.ListWorksResponse, error) {
	items, err := h.Queries.Catalogue(ctx, destination)
	if err != nil {
		return httptransport.ListWorksResponse{}, err
	}
	return h.mapList(items), nil
}

func (h Handler) ListByCategoryHandler(ctx context.Context, actor workflow.Actor, category string) (httptransport.ListWorksResponse, error) {
	items, err := h.Queries.ListByCategory(ctx, category, actor)
	if err != nil {
		return httptransport.ListWorksResponse{}, err
	}
	return h.mapList(items), nil
}

func (h Handler) CategoriesHandler() httptransport.CategoriesResponse {
	resp := httptransport.CategoriesResponse{ByFamily: make(map[string][]httptransport.CategoryDTO)}
	for _, info := range entities.Categories() {
		dto := httptransport.CategoryDTO{Code: string(info.Code), Label: info.Label, Family: info.Family}
		resp.Items = append(resp.Items, dto)
		resp.ByFamily[info.Family] = append(resp.ByFamily[info.Family], dto)
	}
	return resp
}

func (h Handler) StatisticsHandler(ctx context.Context) (httptransport.CatalogueStatisticsResponse, error) {
	stats, err := h.Queries.Statistics(ctx)
	if err != nil {
		return httptransport.CatalogueStatisticsResponse{}, err
	}
	resp := httptransport.CatalogueStatisticsResponse{
		Total:         stats.Total,
		ByState:       make(map[string]int, len(stats.ByState)),
		ByDestination: make(map[string]int, len(stats.ByDestination)),
	}
	for state, count := range stats.ByState {
		resp.ByState[string(state)] = count
	}
	for destination, count := range stats.ByDestination {
		resp.ByDestination[string(destination)] = count
	}
	return resp, nil
}

func (h Handler) AuditTrailHandler(ctx context.Context, actor workflow.Actor, workID string) (httptransport.AuditTrailResponse, error) {
	records, err := h.Queries.AuditTrail(ctx, workID, actor)
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

func (h Handler) mapList(items []entities.Work) httptransport.ListWorksResponse {
	result := make([]httptransport.WorkDTO, 0, len(items))
	for _, item := range items {
		result = append(result, h.mapWork(item, false))
	}
	return httptransport.ListWorksResponse{Items: result}
}

func (h Handler) mapWork(item entities.Work, withContent bool) httptransport.WorkDTO {
	dto := httptransport.WorkDTO{
		WorkID:          item.WorkID,
		Title:           item.Title,
		Author:          item.Author,
		SubmitterID:     item.SubmitterID,
		State:           string(item.State),
		Destination:     string(item.Destination),
		SubmittedAt:     item.SubmittedAt,
		ReviewStartedAt: item.ReviewStartedAt,
		DecidedAt:       item.DecidedAt,
		DecidedBy:       item.DecidedBy,
		RejectionReason: item.RejectionReason,
		Terminal:        item.IsTerminal(),
		DelaySeconds:    int64(item.Delay(h.now()) / time.Second),
		Version:         item.Version,
	}
	for _, category := range item.Categories {
		dto.Categories = append(dto.Categories, string(category))
	}
	if withContent {
		dto.Content = item.Content
	}
	return dto
}

func (h Handler) now() time.Time {
	if h.Clock != nil {
		return h.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func mapOptions(dto httptransport.ConversionOptionsDTO) ports.ConversionOptions {
	return ports.ConversionOptions{
		DPI:             dto.DPI,
		Language:        dto.Language,
		LeftMarginRatio: dto.LeftMarginRatio,
	}
}
