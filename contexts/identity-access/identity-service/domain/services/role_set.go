package services

import (
	"sort"

	"bibliotheque/contexts/identity-access/identity-service/domain/entities"
	"bibliotheque/kernel/workflow"
)

// EffectiveRoles collapses assignments into a sorted role set. Every
// registered user is at least a member.
func EffectiveRoles(assignments []entities.RoleAssignment) []workflow.Role {
	seen := map[workflow.Role]struct{}{workflow.RoleMember: {}}
	for _, assignment := range assignments {
		seen[assignment.Role] = struct{}{}
	}
	roles := make([]workflow.Role, 0, len(seen))
	for role := range seen {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
