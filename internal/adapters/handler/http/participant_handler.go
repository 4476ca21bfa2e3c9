package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type ParticipantHandler struct {
	service ports.SessionService
}

func NewParticipantHandler(service ports.SessionService) *ParticipantHandler {
	return &ParticipantHandler{
		service: service,
	}
}

type removeRequest struct {
	Name string `json:"name"`
}

func (h *ParticipantHandler) List(w http.ResponseWriter, _ *http.Request) {
	names := h.service.Participants()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *ParticipantHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.RemoveParticipant(r.Context(), req.Name); err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			writeError(w, http.StatusNotFound, "Student not found.")
			return
		}

		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": req.Name + " removed."})
}
