package commands

import (
	"context"
	"strings"
	"time"

	"bibliotheque/contexts/catalogue-moderation/work-service/domain/entities"
	domainerrors "bibliotheque/contexts/catalogue-moderation/work-service/domain/errors"
	"bibliotheque/contexts/catalogue-moderation/work-service/ports"
	"bibliotheque/kernel/workflow"
)

// transitionRunner loads a work, fires one action through the machine and
// saves the result with a version check.
type transitionRunner struct {
	repository  ports.Repository
	clock       ports.Clock
	idGenerator ports.IDGenerator
}

// version, when set, pins the version the caller observed earlier.
type transitionSpec struct {
	workID  string
	actor   workflow.Actor
	action  workflow.Action
	version int64
	guards  []workflow.Guard
	mutate  func(work *entities.Work, at time.Time)
}

func (r transitionRunner) run(ctx context.Context, spec transitionSpec) (entities.Work, workflow.Step, error) {
	if strings.TrimSpace(spec.actor.ID) == "" {
		return entities.Work{}, workflow.Step{}, domainerrors.ErrUnauthorizedActor
	}
	work, err := r.repository.GetWork(ctx, strings.TrimSpace(spec.workID))
	if err != nil {
		return entities.Work{}, workflow.Step{}, err
	}
	if spec.version != 0 && work.Version != spec.version {
		return entities.Work{}, workflow.Step{}, workflow.ErrVersionConflict
	}

	now := r.now()
	step, err := entities.Machine.Fire(workflow.Request{
		EntityID: work.WorkID,
		From:     work.State,
		Action:   spec.action,
		Actor:    spec.actor,
		At:       now,
		Guards:   spec.guards,
	})
	if err != nil {
		return entities.Work{}, workflow.Step{}, err
	}

	expectedVersion := work.Version
	work.State = step.To
	if spec.mutate != nil {
		spec.mutate(&work, now)
	}
	work.Version++
	work.UpdatedAt = now

	if step.Audit.AuditID, err = r.idGenerator.NewID(ctx); err != nil {
		return entities.Work{}, workflow.Step{}, err
	}
	eventID, err := r.idGenerator.NewID(ctx)
	if err != nil {
		return entities.Work{}, workflow.Step{}, err
	}
	event, err := newWorkEnvelope(eventID, step, work, now)
	if err != nil {
		return entities.Work{}, workflow.Step{}, err
	}
	if err := r.repository.SaveTransition(ctx, work, expectedVersion, step.Audit, event); err != nil {
		return entities.Work{}, workflow.Step{}, err
	}
	return work, step, nil
}

func (r transitionRunner) now() time.Time {
	if r.clock != nil {
		return r.clock.Now().UTC()
	}
	return time.Now().UTC()
}
