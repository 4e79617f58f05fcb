package httpserver

import (
	"encoding/json"
	"net/http"

	sessiontransport "electra/contexts/election-ops/session-service/transport/http"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.identity(w, r); !ok {
		return
	}
	var req sessiontransport.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := s.sessions.Handler.CreateSessionHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.identity(w, r); !ok {
		return
	}
	response, err := s.sessions.Handler.ListSessionsHandler(
		r.Context(),
		r.Header.Get("X-Actor-State"),
		r.Header.Get("X-Actor-LGA"),
	)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleForceEnd(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.identity(w, r); !ok {
		return
	}
	response, err := s.sessions.Handler.ForceEndHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handlePublishResults(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.identity(w, r); !ok {
		return
	}
	response, err := s.sessions.Handler.PublishResultsHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}
