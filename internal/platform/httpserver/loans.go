package httpserver

import (
	"net/http"

	loanshttp "bibliotheque/contexts/lending/loan-service/transport/http"
	"bibliotheque/kernel/workflow"
)

func (s *Server) handleBorrow(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	var req loanshttp.BorrowLoanRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.loans.Handler.BorrowHandler(r.Context(), actor, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleMyLoans(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.loans.Handler.MyLoansHandler(r.Context(), actor)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLoan(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.loans.Handler.GetLoanHandler(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.loans.Handler.ReturnHandler(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRenew(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	var req loanshttp.RenewLoanRequest
	if !s.decodeOptional(w, r, &req) {
		return
	}
	resp, err := s.loans.Handler.RenewHandler(r.Context(), actor, r.PathValue("id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
