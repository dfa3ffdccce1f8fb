package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "bibliotheque/contexts/identity-access/promotion-service/application"
	"bibliotheque/contexts/identity-access/promotion-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/promotion-service/domain/errors"
	"bibliotheque/contexts/identity-access/promotion-service/ports"
	"bibliotheque/kernel/workflow"
)

type SubmitRequestCommand struct {
	Motivation string
	Actor      workflow.Actor
}

type SubmitRequestUseCase struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc SubmitRequestUseCase) Execute(ctx context.Context, cmd SubmitRequestCommand) (entities.Request, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.Actor.ID) == "" {
		return entities.Request{}, domainerrors.ErrUnauthorizedActor
	}

	requestID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Request{}, err
	}
	now := uc.now()
	step, err := entities.Machine.Fire(workflow.Request{
		EntityID: requestID,
		From:     workflow.Initial,
		Action:   entities.ActionSubmit,
		Actor:    cmd.Actor,
		At:       now,
		Guards: []workflow.Guard{
			func() error {
				if !entities.LongEnough(cmd.Motivation, entities.MinMotivationRunes) {
					return domainerrors.ErrMotivationTooShort
				}
				return nil
			},
			func() error {
				if cmd.Actor.IsLibrarian() {
					return domainerrors.ErrAlreadyLibrarian
				}
				return nil
			},
		},
	})
	if err != nil {
		return entities.Request{}, err
	}

	request := entities.Request{
		RequestID:   requestID,
		RequesterID: cmd.Actor.ID,
		Motivation:  strings.TrimSpace(cmd.Motivation),
		State:       step.To,
		SubmittedAt: now,
		Version:     1,
		UpdatedAt:   now,
	}
	if step.Audit.AuditID, err = uc.IDGenerator.NewID(ctx); err != nil {
		return entities.Request{}, err
	}
	eventID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Request{}, err
	}
	event, err := newRequestEnvelope(eventID, step, request, now)
	if err != nil {
		return entities.Request{}, err
	}
	if err := uc.Repository.CreateRequest(ctx, request, step.Audit, event); err != nil {
		logger.Warn("promotion request rejected",
			"event", "promotion_submit_rejected",
			"module", "identity-access/promotion-service",
			"layer", "application",
			"requester_id", cmd.Actor.ID,
			"error", err.Error(),
		)
		return entities.Request{}, err
	}

	logger.Info("promotion request submitted",
		"event", "promotion_submitted",
		"module", "identity-access/promotion-service",
		"layer", "application",
		"request_id", request.RequestID,
		"requester_id", request.RequesterID,
	)
	return request, nil
}

func (uc SubmitRequestUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
