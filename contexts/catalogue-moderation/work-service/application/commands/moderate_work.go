package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "bibliotheque/contexts/catalogue-moderation/work-service/application"
	"bibliotheque/contexts/catalogue-moderation/work-service/domain/entities"
	domainerrors "bibliotheque/contexts/catalogue-moderation/work-service/domain/errors"
	"bibliotheque/contexts/catalogue-moderation/work-service/ports"
	"bibliotheque/kernel/workflow"
)

type StartReviewCommand struct {
	WorkID string
	Actor  workflow.Actor
}

type ValidateWorkCommand struct {
	WorkID      string
	Destination string
	Actor       workflow.Actor
}

type RejectWorkCommand struct {
	WorkID string
	Motif  string
	Actor  workflow.Actor
}

type ClassifyWorkCommand struct {
	WorkID     string
	Categories []string
	Actor      workflow.Actor
}

// ModerateWorkUseCase drives a work through review to its decision.
type ModerateWorkUseCase struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc ModerateWorkUseCase) StartReview(ctx context.Context, cmd StartReviewCommand) (entities.Work, error) {
	work, _, err := uc.runner().run(ctx, transitionSpec{
		workID: cmd.WorkID,
		actor:  cmd.Actor,
		action: entities.ActionStartReview,
		mutate: func(work *entities.Work, at time.Time) {
			work.ReviewStartedAt = &at
		},
	})
	if errors.Is(err, workflow.ErrInvalidTransition) {
		err = domainerrors.ErrNotAwaitingReview
	}
	if err != nil {
		uc.logFailure("start_review", cmd.WorkID, cmd.Actor.ID, err)
		return entities.Work{}, err
	}
	uc.logDecision("work review started", "work_review_started", work, cmd.Actor.ID)
	return work, nil
}

func (uc ModerateWorkUseCase) Validate(ctx context.Context, cmd ValidateWorkCommand) (entities.Work, error) {
	destination, ok := entities.ParseDestination(cmd.Destination)
	work, _, err := uc.runner().run(ctx, transitionSpec{
		workID: cmd.WorkID,
		actor:  cmd.Actor,
		action: entities.ActionValidate,
		guards: []workflow.Guard{func() error {
			if !ok {
				return domainerrors.ErrInvalidDestination
			}
			return nil
		}},
		mutate: func(work *entities.Work, at time.Time) {
			work.Destination = destination
			work.DecidedAt = &at
			work.DecidedBy = cmd.Actor.ID
		},
	})
	if err != nil {
		uc.logFailure("validate", cmd.WorkID, cmd.Actor.ID, err)
		return entities.Work{}, err
	}
	uc.logDecision("work validated", "work_validated", work, cmd.Actor.ID)
	return work, nil
}

func (uc ModerateWorkUseCase) Reject(ctx context.Context, cmd RejectWorkCommand) (entities.Work, error) {
	motif := strings.TrimSpace(cmd.Motif)
	work, _, err := uc.runner().run(ctx, transitionSpec{
		workID: cmd.WorkID,
		actor:  cmd.Actor,
		action: entities.ActionReject,
		guards: []workflow.Guard{func() error {
			if motif == "" {
				return domainerrors.ErrMotifRequired
			}
			return nil
		}},
		mutate: func(work *entities.Work, at time.Time) {
			work.RejectionReason = motif
			work.DecidedAt = &at
			work.DecidedBy = cmd.Actor.ID
		},
	})
	if err != nil {
		uc.logFailure("reject", cmd.WorkID, cmd.Actor.ID, err)
		return entities.Work{}, err
	}
	uc.logDecision("work rejected", "work_rejected", work, cmd.Actor.ID)
	return work, nil
}

// Classify replaces the category set of a work still under moderation.
func (uc ModerateWorkUseCase) Classify(ctx context.Context, cmd ClassifyWorkCommand) (entities.Work, error) {
	categories, unknown := entities.ParseCategories(cmd.Categories)
	work, _, err := uc.runner().run(ctx, transitionSpec{
		workID: cmd.WorkID,
		actor:  cmd.Actor,
		action: entities.ActionClassify,
		guards: []workflow.Guard{func() error {
			if len(unknown) > 0 {
				return fmt.Errorf("%w: %s", domainerrors.ErrInvalidCategory, strings.Join(unknown, ", "))
			}
			if len(categories) == 0 {
				return domainerrors.ErrNoCategories
			}
			return nil
		}},
		mutate: func(work *entities.Work, _ time.Time) {
			work.Categories = categories
		},
	})
	if err != nil {
		uc.logFailure("classify", cmd.WorkID, cmd.Actor.ID, err)
		return entities.Work{}, err
	}
	uc.logDecision("work classified", "work_classified", work, cmd.Actor.ID)
	return work, nil
}

func (uc ModerateWorkUseCase) runner() transitionRunner {
	return transitionRunner{
		repository:  uc.Repository,
		clock:       uc.Clock,
		idGenerator: uc.IDGenerator,
	}
}

func (uc ModerateWorkUseCase) logDecision(message string, event string, work entities.Work, actorID string) {
	application.ResolveLogger(uc.Logger).Info(message,
		"event", event,
		"module", "catalogue-moderation/work-service",
		"layer", "application",
		"work_id", work.WorkID,
		"actor_id", actorID,
		"state", string(work.State),
		"version", work.Version,
	)
}

func (uc ModerateWorkUseCase) logFailure(action string, workID string, actorID string, err error) {
	application.ResolveLogger(uc.Logger).Warn("work moderation rejected",
		"event", "work_moderation_rejected",
		"module", "catalogue-moderation/work-service",
		"layer", "application",
		"action", action,
		"work_id", workID,
		"actor_id", actorID,
		"error", err.Error(),
	)
}
