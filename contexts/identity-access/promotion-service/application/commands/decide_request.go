package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "bibliotheque/contexts/identity-access/promotion-service/application"
	"bibliotheque/contexts/identity-access/promotion-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/promotion-service/domain/errors"
	"bibliotheque/contexts/identity-access/promotion-service/ports"
	"bibliotheque/kernel/workflow"
)

type ApproveRequestCommand struct {
	RequestID string
	Actor     workflow.Actor
}

type RefuseRequestCommand struct {
	RequestID string
	Motif     string
	Actor     workflow.Actor
}

// DecideRequestUseCase approves or refuses pending requests.
type DecideRequestUseCase struct {
	Repository  ports.Repository
	Transactor  ports.Transactor
	Roles       ports.RoleGranter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Approve moves the request to approved and grants the librarian role in one
// unit. The grant runs last; when it fails the request stays pending.
func (uc DecideRequestUseCase) Approve(ctx context.Context, cmd ApproveRequestCommand) (entities.Request, error) {
	logger := application.ResolveLogger(uc.Logger)

	var approved entities.Request
	err := uc.withinTransaction(ctx, func(txCtx context.Context) error {
		request, err := uc.runner().run(txCtx, transitionSpec{
			requestID: cmd.RequestID,
			actor:     cmd.Actor,
			action:    entities.ActionApprove,
			mutate: func(request *entities.Request, at time.Time) {
				request.DecidedAt = &at
				request.DecidedBy = cmd.Actor.ID
			},
		})
		if err != nil {
			return err
		}
		if err := uc.Roles.GrantLibrarian(txCtx, request.RequesterID, cmd.Actor.ID); err != nil {
			if workflow.Classified(err) {
				return err
			}
			return fmt.Errorf("%w: %v", domainerrors.ErrRoleGrantFailed, err)
		}
		approved = request
		return nil
	})
	if err != nil {
		uc.logFailure("approve", cmd.RequestID, cmd.Actor.ID, err)
		return entities.Request{}, err
	}

	logger.Info("promotion request approved",
		"event", "promotion_approved",
		"module", "identity-access/promotion-service",
		"layer", "application",
		"request_id", approved.RequestID,
		"requester_id", approved.RequesterID,
		"actor_id", cmd.Actor.ID,
	)
	return approved, nil
}

func (uc DecideRequestUseCase) Refuse(ctx context.Context, cmd RefuseRequestCommand) (entities.Request, error) {
	logger := application.ResolveLogger(uc.Logger)
	motif := strings.TrimSpace(cmd.Motif)
	request, err := uc.runner().run(ctx, transitionSpec{
		requestID: cmd.RequestID,
		actor:     cmd.Actor,
		action:    entities.ActionRefuse,
		guards: func(entities.Request) []workflow.Guard {
			return []workflow.Guard{func() error {
				if !entities.LongEnough(motif, entities.MinRefusalRunes) {
					return domainerrors.ErrMotifTooShort
				}
				return nil
			}}
		},
		mutate: func(request *entities.Request, at time.Time) {
			request.DecidedAt = &at
			request.DecidedBy = cmd.Actor.ID
			request.RefusalMotif = motif
		},
	})
	if err != nil {
		uc.logFailure("refuse", cmd.RequestID, cmd.Actor.ID, err)
		return entities.Request{}, err
	}

	logger.Info("promotion request refused",
		"event", "promotion_refused",
		"module", "identity-access/promotion-service",
		"layer", "application",
		"request_id", request.RequestID,
		"requester_id", request.RequesterID,
		"actor_id", cmd.Actor.ID,
	)
	return request, nil
}

func (uc DecideRequestUseCase) withinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if uc.Transactor == nil {
		return fn(ctx)
	}
	return uc.Transactor.WithinTransaction(ctx, fn)
}

func (uc DecideRequestUseCase) runner() transitionRunner {
	return transitionRunner{
		repository:  uc.Repository,
		clock:       uc.Clock,
		idGenerator: uc.IDGenerator,
	}
}

func (uc DecideRequestUseCase) logFailure(action string, requestID string, actorID string, err error) {
	application.ResolveLogger(uc.Logger).Warn("promotion decision rejected",
		"event", "promotion_decision_rejected",
		"module", "identity-access/promotion-service",
		"layer", "application",
		"action", action,
		"request_id", requestID,
		"actor_id", actorID,
		"error", err.Error(),
	)
}
