package commands

import (
	"context"
	"log/slog"
	"time"

	application "bibliotheque/contexts/identity-access/promotion-service/application"
	"bibliotheque/contexts/identity-access/promotion-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/promotion-service/domain/errors"
	"bibliotheque/contexts/identity-access/promotion-service/ports"
	"bibliotheque/kernel/workflow"
)

type CancelRequestCommand struct {
	RequestID string
	Actor     workflow.Actor
}

// CancelRequestUseCase withdraws a pending request on behalf of its requester.
type CancelRequestUseCase struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc CancelRequestUseCase) Execute(ctx context.Context, cmd CancelRequestCommand) (entities.Request, error) {
	logger := application.ResolveLogger(uc.Logger)
	request, err := transitionRunner{
		repository:  uc.Repository,
		clock:       uc.Clock,
		idGenerator: uc.IDGenerator,
	}.run(ctx, transitionSpec{
		requestID: cmd.RequestID,
		actor:     cmd.Actor,
		action:    entities.ActionCancel,
		guards: func(request entities.Request) []workflow.Guard {
			return []workflow.Guard{func() error {
				if request.RequesterID != cmd.Actor.ID {
					return domainerrors.ErrNotRequester
				}
				return nil
			}}
		},
		mutate: func(request *entities.Request, at time.Time) {
			request.DecidedAt = &at
			request.DecidedBy = cmd.Actor.ID
		},
	})
	if err != nil {
		logger.Warn("promotion cancel rejected",
			"event", "promotion_cancel_rejected",
			"module", "identity-access/promotion-service",
			"layer", "application",
			"request_id", cmd.RequestID,
			"actor_id", cmd.Actor.ID,
			"error", err.Error(),
		)
		return entities.Request{}, err
	}

	logger.Info("promotion request cancelled",
		"event", "promotion_cancelled",
		"module", "identity-access/promotion-service",
		"layer", "application",
		"request_id", request.RequestID,
		"requester_id", request.RequesterID,
	)
	return request, nil
}
