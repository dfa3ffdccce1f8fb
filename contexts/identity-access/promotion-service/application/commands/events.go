package commands

import (
	"time"

	"bibliotheque/contexts/identity-access/promotion-service/domain/entities"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/kernel/workflow"
)

const (
	EventPromotionSubmitted = "promotion.submitted"
	EventPromotionApproved  = "promotion.approved"
	EventPromotionRefused   = "promotion.refused"
	EventPromotionCancelled = "promotion.cancelled"
)

var eventTypes = map[workflow.Action]string{
	entities.ActionSubmit:  EventPromotionSubmitted,
	entities.ActionApprove: EventPromotionApproved,
	entities.ActionRefuse:  EventPromotionRefused,
	entities.ActionCancel:  EventPromotionCancelled,
}

func newRequestEnvelope(eventID string, step workflow.Step, request entities.Request, occurredAt time.Time) (contractsv1.Envelope, error) {
	return contractsv1.NewEnvelope(
		eventID,
		eventTypes[step.Audit.Action],
		"promotion-service",
		"request_id",
		request.RequestID,
		occurredAt,
		map[string]any{
			"request_id":   request.RequestID,
			"requester_id": request.RequesterID,
			"from_state":   string(step.From),
			"to_state":     string(step.To),
			"actor_id":     step.Audit.ActorID,
			"version":      request.Version,
		},
	)
}
