package httpserver

import (
	"net/http"

	workentities "bibliotheque/contexts/catalogue-moderation/work-service/domain/entities"
	promotionentities "bibliotheque/contexts/identity-access/promotion-service/domain/entities"
	loanentities "bibliotheque/contexts/lending/loan-service/domain/entities"
	"bibliotheque/kernel/workflow"
)

// handleAuditTrail serves the audit records of one entity; kind is the
// entity kind recorded in the trail itself.
func (s *Server) handleAuditTrail(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	entityID := r.PathValue("id")
	var (
		resp any
		err  error
	)
	switch r.PathValue("kind") {
	case workentities.EntityKind:
		resp, err = s.works.Handler.AuditTrailHandler(r.Context(), actor, entityID)
	case loanentities.EntityKind:
		resp, err = s.loans.Handler.AuditTrailHandler(r.Context(), actor, entityID)
	case promotionentities.EntityKind:
		resp, err = s.promotions.Handler.AuditTrailHandler(r.Context(), actor, entityID)
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown entity kind")
		return
	}
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
