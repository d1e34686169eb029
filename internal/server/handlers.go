package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/apexintel/quiz-engine/internal/bank"
	"github.com/apexintel/quiz-engine/internal/session"
	"github.com/apexintel/quiz-engine/internal/types"
)

// CreateInterviewRequest starts a new interview. The research profile is
// optional; when present it seeds the confidence model before the first
// question is chosen.
type CreateInterviewRequest struct {
	Industry string                 `json:"industry"`
	Research *types.ResearchProfile `json:"research,omitempty"`
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var req CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.controller.Start(r.Context(), req.Industry, req.Research)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to start interview: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, result)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var payload types.AnswerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.controller.SubmitAnswer(r.Context(), id, &payload)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			s.errorResponse(w, http.StatusNotFound, "Interview not found")
		case errors.Is(err, session.ErrInvalidAnswer):
			s.errorResponse(w, http.StatusBadRequest, err.Error())
		default:
			s.errorResponse(w, http.StatusInternalServerError, "Failed to process answer: "+err.Error())
		}
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	snapshot, err := s.controller.GetState(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Interview not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load interview: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, snapshot)
}

func (s *Server) handleListIndustries(w http.ResponseWriter, _ *http.Request) {
	industries, err := bank.ListIndustries()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list industries: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string][]string{"industries": industries})
}

func (s *Server) handleGetBank(w http.ResponseWriter, r *http.Request) {
	industry := r.PathValue("industry")

	b, err := bank.Load(industry)
	if err != nil {
		if errors.Is(err, bank.ErrBankNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Unknown industry: "+industry)
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load question bank: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, b)
}
