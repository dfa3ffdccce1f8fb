package commands

import (
	"time"

	"bibliotheque/contexts/catalogue-moderation/work-service/domain/entities"
	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/kernel/workflow"
)

const (
	EventWorkSubmitted     = "work.submitted"
	EventWorkReviewStarted = "work.review_started"
	EventWorkValidated     = "work.validated"
	EventWorkRejected      = "work.rejected"
	EventWorkReconverted   = "work.reconverted"
	EventWorkClassified    = "work.classified"
)

var eventTypes = map[workflow.Action]string{
	entities.ActionSubmit:      EventWorkSubmitted,
	entities.ActionStartReview: EventWorkReviewStarted,
	entities.ActionValidate:    EventWorkValidated,
	entities.ActionReject:      EventWorkRejected,
	entities.ActionReconvert:   EventWorkReconverted,
	entities.ActionClassify:    EventWorkClassified,
}

func newWorkEnvelope(eventID string, step workflow.Step, work entities.Work, occurredAt time.Time) (contractsv1.Envelope, error) {
	categories := make([]string, 0, len(work.Categories))
	for _, category := range work.Categories {
		categories = append(categories, string(category))
	}
	return contractsv1.NewEnvelope(
		eventID,
		eventTypes[step.Audit.Action],
		"work-service",
		"work_id",
		work.WorkID,
		occurredAt,
		map[string]any{
			"work_id":      work.WorkID,
			"title":        work.Title,
			"submitter_id": work.SubmitterID,
			"from_state":   string(step.From),
			"to_state":     string(step.To),
			"destination":  string(work.Destination),
			"categories":   categories,
			"actor_id":     step.Audit.ActorID,
			"version":      work.Version,
		},
	)
}
