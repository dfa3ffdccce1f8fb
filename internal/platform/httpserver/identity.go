package httpserver

import (
	"net/http"

	identityhttp "bibliotheque/contexts/identity-access/identity-service/transport/http"
	"bibliotheque/kernel/workflow"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.RegisterRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.identity.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.LoginRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.identity.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRefresh reads the bearer itself: an expired token must reach the
// identity service as a 401 from there, not from the auth middleware.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	resp, err := s.identity.Handler.RefreshHandler(r.Context(), bearerToken(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, _ workflow.Actor) {
	caller, _ := callerFrom(r.Context())
	writeJSON(w, http.StatusOK, s.identity.Handler.MeHandler(caller))
}

func (s *Server) handleListUserRoles(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	userID := r.PathValue("id")
	if userID != actor.ID && !actor.IsLibrarian() {
		writeError(w, http.StatusForbidden, "forbidden", "librarian role required")
		return
	}
	resp, err := s.identity.Handler.ListUserRolesHandler(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGrantRole(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	var req identityhttp.GrantRoleRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.identity.Handler.GrantRoleHandler(r.Context(), actor.ID, r.PathValue("id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	s.opts.Hub.ServeWS(w, r, actor)
}
