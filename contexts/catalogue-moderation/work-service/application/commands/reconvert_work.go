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

// ReconvertWorkCommand replaces a work's content by converting its source
// document again. Document overrides the stored source when set.
type ReconvertWorkCommand struct {
	WorkID   string
	Document []byte
	Options  ports.ConversionOptions
	Actor    workflow.Actor
}

type ReconvertWorkUseCase struct {
	Repository  ports.Repository
	Converter   ports.Converter
	Documents   ports.DocumentStore
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc ReconvertWorkUseCase) Execute(ctx context.Context, cmd ReconvertWorkCommand) (entities.Work, error) {
	logger := application.ResolveLogger(uc.Logger)
	workID := strings.TrimSpace(cmd.WorkID)

	// Role and state are checked before the converter runs.
	if err := entities.Machine.Authorize(entities.ActionReconvert, cmd.Actor); err != nil {
		return entities.Work{}, err
	}
	current, err := uc.Repository.GetWork(ctx, workID)
	if err != nil {
		return entities.Work{}, err
	}
	if !entities.Machine.Can(current.State, entities.ActionReconvert) {
		_, err := entities.Machine.Fire(workflow.Request{
			EntityID: current.WorkID,
			From:     current.State,
			Action:   entities.ActionReconvert,
			Actor:    cmd.Actor,
		})
		return entities.Work{}, err
	}

	document := cmd.Document
	if len(document) == 0 {
		if uc.Documents == nil {
			return entities.Work{}, domainerrors.ErrNoSourceDocument
		}
		if document, err = uc.Documents.GetDocument(ctx, workID); err != nil {
			return entities.Work{}, err
		}
	}
	content, err := convert(ctx, uc.Converter, document, cmd.Options)
	if err != nil {
		logger.Warn("work reconversion failed",
			"event", "work_reconversion_failed",
			"module", "catalogue-moderation/work-service",
			"layer", "application",
			"work_id", workID,
			"error", err.Error(),
		)
		return entities.Work{}, err
	}

	// Any write that landed during the conversion turns this into a conflict.
	work, _, err := transitionRunner{
		repository:  uc.Repository,
		clock:       uc.Clock,
		idGenerator: uc.IDGenerator,
	}.run(ctx, transitionSpec{
		workID:  workID,
		actor:   cmd.Actor,
		action:  entities.ActionReconvert,
		version: current.Version,
		mutate: func(work *entities.Work, _ time.Time) {
			work.Content = content
		},
	})
	if err != nil {
		return entities.Work{}, err
	}
	if len(cmd.Document) > 0 && uc.Documents != nil {
		if err := uc.Documents.PutDocument(ctx, workID, cmd.Document); err != nil {
			return entities.Work{}, err
		}
	}

	logger.Info("work reconverted",
		"event", "work_reconverted",
		"module", "catalogue-moderation/work-service",
		"layer", "application",
		"work_id", work.WorkID,
		"actor_id", cmd.Actor.ID,
		"version", work.Version,
	)
	return work, nil
}
