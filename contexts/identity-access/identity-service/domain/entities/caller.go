package entities

import "bibliotheque/kernel/workflow"

// Caller is the identity resolved from a bearer token.
type Caller struct {
	UserID      string          `json:"user_id"`
	Email       string          `json:"email"`
	DisplayName string          `json:"display_name"`
	Roles       []workflow.Role `json:"roles"`
}

func (c Caller) Actor() workflow.Actor {
	return workflow.Actor{
		ID:    c.UserID,
		Roles: append([]workflow.Role(nil), c.Roles...),
	}
}
