package workflow

import "time"

// AuditRecord is the immutable trace of one accepted transition.
// Creation is recorded with an empty FromState.
type AuditRecord struct {
	AuditID    string    `json:"audit_id"`
	EntityKind string    `json:"entity_kind"`
	EntityID   string    `json:"entity_id"`
	Action     Action    `json:"action"`
	FromState  State     `json:"from_state"`
	ToState    State     `json:"to_state"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
