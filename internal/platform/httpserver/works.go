package httpserver

import (
	"net/http"

	workshttp "bibliotheque/contexts/catalogue-moderation/work-service/transport/http"
	"bibliotheque/kernel/workflow"
)

func (s *Server) handleSubmitWork(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	var req workshttp.SubmitWorkRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.works.Handler.SubmitWorkHandler(r.Context(), actor, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSubmitDocument(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	var req workshttp.SubmitDocumentRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.works.Handler.SubmitDocumentHandler(r.Context(), actor, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListWorks(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.works.Handler.ListWorksHandler(r.Context(), actor, r.URL.Query().Get("etat"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMyWorks(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.works.Handler.MyWorksHandler(r.Context(), actor)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetWork(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.works.Handler.GetWorkHandler(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStartReview(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.works.Handler.StartReviewHandler(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidateWork(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	var req workshttp.ValidateWorkRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.works.Handler.ValidateWorkHandler(r.Context(), actor, r.PathValue("id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectWork(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	var req workshttp.RejectWorkRequest
	if !s.decodeOptional(w, r, &req) {
		return
	}
	resp, err := s.works.Handler.RejectWorkHandler(r.Context(), actor, r.PathValue("id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReconvertWork(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	var req workshttp.ReconvertWorkRequest
	if !s.decodeOptional(w, r, &req) {
		return
	}
	resp, err := s.works.Handler.ReconvertWorkHandler(r.Context(), actor, r.PathValue("id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCatalogue(w http.ResponseWriter, r *http.Request) {
	resp, err := s.works.Handler.CatalogueHandler(r.Context(), r.PathValue("destination"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClassifyWork(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	var req workshttp.ClassifyWorkRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.works.Handler.ClassifyWorkHandler(r.Context(), actor, r.PathValue("id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWorksByCategory(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	resp, err := s.works.Handler.ListByCategoryHandler(r.Context(), actor, r.PathValue("category"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.works.Handler.CategoriesHandler())
}

func (s *Server) handleCatalogueStatistics(w http.ResponseWriter, r *http.Request) {
	resp, err := s.works.Handler.StatisticsHandler(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
