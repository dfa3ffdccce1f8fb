package commands

import (
	"context"
	"strings"
	"time"

	"bibliotheque/contexts/identity-access/promotion-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/promotion-service/domain/errors"
	"bibliotheque/contexts/identity-access/promotion-service/ports"
	"bibliotheque/kernel/workflow"
)

type transitionRunner struct {
	repository  ports.Repository
	clock       ports.Clock
	idGenerator ports.IDGenerator
}

type transitionSpec struct {
	requestID string
	actor     workflow.Actor
	action    workflow.Action
	guards    func(request entities.Request) []workflow.Guard
	mutate    func(request *entities.Request, at time.Time)
}

// run fires one action on a stored request and saves it with a version check.
func (r transitionRunner) run(ctx context.Context, spec transitionSpec) (entities.Request, error) {
	if strings.TrimSpace(spec.actor.ID) == "" {
		return entities.Request{}, domainerrors.ErrUnauthorizedActor
	}
	request, err := r.repository.GetRequest(ctx, strings.TrimSpace(spec.requestID))
	if err != nil {
		return entities.Request{}, err
	}

	now := r.now()
	var guards []workflow.Guard
	if spec.guards != nil {
		guards = spec.guards(request)
	}
	step, err := entities.Machine.Fire(workflow.Request{
		EntityID: request.RequestID,
		From:     request.State,
		Action:   spec.action,
		Actor:    spec.actor,
		At:       now,
		Guards:   guards,
	})
	if err != nil {
		return entities.Request{}, err
	}

	expectedVersion := request.Version
	request.State = step.To
	if spec.mutate != nil {
		spec.mutate(&request, now)
	}
	request.Version++
	request.UpdatedAt = now

	if step.Audit.AuditID, err = r.idGenerator.NewID(ctx); err != nil {
		return entities.Request{}, err
	}
	eventID, err := r.idGenerator.NewID(ctx)
	if err != nil {
		return entities.Request{}, err
	}
	event, err := newRequestEnvelope(eventID, step, request, now)
	if err != nil {
		return entities.Request{}, err
	}
	if err := r.repository.SaveTransition(ctx, request, expectedVersion, step.Audit, event); err != nil {
		return entities.Request{}, err
	}
	return request, nil
}

func (r transitionRunner) now() time.Time {
	if r.clock != nil {
		return r.clock.Now().UTC()
	}
	return time.Now().UTC()
}
