package entities

import (
	"time"

	"bibliotheque/kernel/workflow"
)

// RoleAssignment captures one user-role relation. Assignments are never
// revoked by the workflow engine; promotion only adds the librarian role.
type RoleAssignment struct {
	UserID    string        `json:"user_id"`
	Role      workflow.Role `json:"role"`
	GrantedBy string        `json:"granted_by"`
	GrantedAt time.Time     `json:"granted_at"`
}
