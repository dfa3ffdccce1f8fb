package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "bibliotheque/contexts/catalogue-moderation/work-service/application"
	"bibliotheque/contexts/catalogue-moderation/work-service/domain/entities"
	domainerrors "bibliotheque/contexts/catalogue-moderation/work-service/domain/errors"
	"bibliotheque/contexts/catalogue-moderation/work-service/ports"
	"bibliotheque/kernel/workflow"
)

type SubmitWorkCommand struct {
	Title   string
	Author  string
	Content string
	Actor   workflow.Actor
}

// SubmitDocumentCommand submits a scanned document that is converted to
// markdown before the work is created.
type SubmitDocumentCommand struct {
	Title    string
	Author   string
	Document []byte
	Options  ports.ConversionOptions
	Actor    workflow.Actor
}

type SubmitWorkUseCase struct {
	Repository  ports.Repository
	Converter   ports.Converter
	Documents   ports.DocumentStore
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc SubmitWorkUseCase) Execute(ctx context.Context, cmd SubmitWorkCommand) (entities.Work, error) {
	return uc.create(ctx, cmd, nil)
}

// ExecuteDocument converts first, outside of any write, then submits the
// resulting markdown. A conversion failure leaves nothing behind.
func (uc SubmitWorkUseCase) ExecuteDocument(ctx context.Context, cmd SubmitDocumentCommand) (entities.Work, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := entities.Machine.Authorize(entities.ActionSubmit, cmd.Actor); err != nil {
		return entities.Work{}, err
	}
	if strings.TrimSpace(cmd.Title) == "" {
		return entities.Work{}, domainerrors.ErrTitleRequired
	}
	if len(cmd.Document) == 0 {
		return entities.Work{}, domainerrors.ErrEmptyDocument
	}

	content, err := convert(ctx, uc.Converter, cmd.Document, cmd.Options)
	if err != nil {
		logger.Warn("work document conversion failed",
			"event", "work_document_conversion_failed",
			"module", "catalogue-moderation/work-service",
			"layer", "application",
			"submitter_id", cmd.Actor.ID,
			"error", err.Error(),
		)
		return entities.Work{}, err
	}
	return uc.create(ctx, SubmitWorkCommand{
		Title:   cmd.Title,
		Author:  cmd.Author,
		Content: content,
		Actor:   cmd.Actor,
	}, cmd.Document)
}

func (uc SubmitWorkUseCase) create(ctx context.Context, cmd SubmitWorkCommand, document []byte) (entities.Work, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.Actor.ID) == "" {
		return entities.Work{}, domainerrors.ErrUnauthorizedActor
	}

	workID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Work{}, err
	}
	now := uc.now()
	step, err := entities.Machine.Fire(workflow.Request{
		EntityID: workID,
		From:     workflow.Initial,
		Action:   entities.ActionSubmit,
		Actor:    cmd.Actor,
		At:       now,
		Guards: []workflow.Guard{func() error {
			if strings.TrimSpace(cmd.Title) == "" {
				return domainerrors.ErrTitleRequired
			}
			return nil
		}},
	})
	if err != nil {
		return entities.Work{}, err
	}

	work := entities.Work{
		WorkID:      workID,
		Title:       strings.TrimSpace(cmd.Title),
		Author:      strings.TrimSpace(cmd.Author),
		Content:     cmd.Content,
		SubmitterID: cmd.Actor.ID,
		State:       step.To,
		SubmittedAt: now,
		Version:     1,
		UpdatedAt:   now,
	}
	if step.Audit.AuditID, err = uc.IDGenerator.NewID(ctx); err != nil {
		return entities.Work{}, err
	}
	eventID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Work{}, err
	}
	event, err := newWorkEnvelope(eventID, step, work, now)
	if err != nil {
		return entities.Work{}, err
	}
	if err := uc.Repository.CreateWork(ctx, work, step.Audit, event); err != nil {
		return entities.Work{}, err
	}
	if len(document) > 0 && uc.Documents != nil {
		if err := uc.Documents.PutDocument(ctx, work.WorkID, document); err != nil {
			logger.Warn("work source document not kept",
				"event", "work_document_store_failed",
				"module", "catalogue-moderation/work-service",
				"layer", "application",
				"work_id", work.WorkID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("work submitted",
		"event", "work_submitted",
		"module", "catalogue-moderation/work-service",
		"layer", "application",
		"work_id", work.WorkID,
		"submitter_id", work.SubmitterID,
	)
	return work, nil
}

func (uc SubmitWorkUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
