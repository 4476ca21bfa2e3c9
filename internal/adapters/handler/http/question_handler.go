package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type QuestionHandler struct {
	service ports.SessionService
}

func NewQuestionHandler(service ports.SessionService) *QuestionHandler {
	return &QuestionHandler{
		service: service,
	}
}

type createQuestionResponse struct {
	Message  string              `json:"message"`
	Question domain.QuestionView `json:"question"`
}

func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var input ports.CreateQuestionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.CreateQuestion(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrRoundInProgress) {
			writeError(w, http.StatusConflict, "wait until all students answer before creating a new question")
			return
		}

		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, createQuestionResponse{Message: "Question created", Question: view})
}

func (h *QuestionHandler) AbortRound(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AbortRound(r.Context()); err != nil {
		if errors.Is(err, domain.ErrNoActiveRound) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}

		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Round aborted"})
}

func (h *QuestionHandler) CurrentQuestion(w http.ResponseWriter, _ *http.Request) {
	view, ok := h.service.CurrentQuestion()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *QuestionHandler) Results(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Results())
}

func (h *QuestionHandler) History(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.service.History())
}
