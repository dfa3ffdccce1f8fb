package httptransport

import "time"

type SubmitRequestRequest struct {
	Motivation string `json:"motivation" validate:"required,max=4000"`
}

type RefuseRequestRequest struct {
	Motif string `json:"motif" validate:"required,max=2000"`
}

type PromotionRequestDTO struct {
	RequestID    string     `json:"request_id"`
	RequesterID  string     `json:"requester_id"`
	Motivation   string     `json:"motivation"`
	State        string     `json:"state"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	DecidedBy    string     `json:"decided_by,omitempty"`
	RefusalMotif string     `json:"refusal_motif,omitempty"`
	DelaySeconds int64      `json:"delay_seconds"`
	Version      int64      `json:"version"`
}

type PromotionRequestResponse struct {
	Request PromotionRequestDTO `json:"request"`
}

type ListPromotionRequestsResponse struct {
	Items []PromotionRequestDTO `json:"items"`
}

type StatisticsResponse struct {
	Total         int     `json:"total"`
	Pending       int     `json:"pending"`
	Approved      int     `json:"approved"`
	Refused       int     `json:"refused"`
	Cancelled     int     `json:"cancelled"`
	MeanDelayDays float64 `json:"mean_delay_days"`
}

type AuditRecordDTO struct {
	AuditID    string    `json:"audit_id"`
	EntityKind string    `json:"entity_kind"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	FromState  string    `json:"from_state"`
	ToState    string    `json:"to_state"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AuditTrailResponse struct {
	Items []AuditRecordDTO `json:"items"`
}
