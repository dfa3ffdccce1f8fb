package httpserver

import (
	"net/http"
	"strconv"

	promotionshttp "bibliotheque/contexts/identity-access/promotion-service/transport/http"
	"bibliotheque/kernel/workflow"
)

func (s *Server) handleSubmitRequest(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	var req promotionshttp.SubmitRequestRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.promotions.Handler.SubmitHandler(r.Context(), actor, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleMyRequests(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.promotions.Handler.MyRequestsHandler(r.Context(), actor)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePendingRequests(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.promotions.Handler.PendingHandler(r.Context(), actor)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRequestHistory(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	resp, err := s.promotions.Handler.HistoryHandler(r.Context(), actor, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRequestStatistics(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.promotions.Handler.StatisticsHandler(r.Context(), actor)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.promotions.Handler.GetRequestHandler(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveRequest(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.promotions.Handler.ApproveHandler(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefuseRequest(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	var req promotionshttp.RefuseRequestRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.promotions.Handler.RefuseHandler(r.Context(), actor, r.PathValue("id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelRequest(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.promotions.Handler.CancelHandler(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
