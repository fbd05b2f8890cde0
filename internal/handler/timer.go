package handler

import (
	"net/http"
	"time"

	"github.com/habimori/habimori/internal/ctxkeys"
	"github.com/habimori/habimori/internal/service"
)

type TimerHandler struct {
	timerService *service.TimerService
}

func NewTimerHandler(timerService *service.TimerService) *TimerHandler {
	return &TimerHandler{
		timerService: timerService,
	}
}

type startTimerRequest struct {
	ContextID string  `json:"context_id"`
	GoalID    *string `json:"goal_id"`
}

func (h *TimerHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req startTimerRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ContextID == "" {
		writeError(w, http.StatusBadRequest, "context_id is required")
		return
	}

	entry, err := h.timerService.Start(user.ID, req.ContextID, req.GoalID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *TimerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entry, err := h.timerService.Stop(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Running returns the current running entry; 404 means no timer is running.
func (h *TimerHandler) Running(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entry, err := h.timerService.Running(user.ID)
	if err == service.ErrTimerNotRunning {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

type updateEntryRequest struct {
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

func (h *TimerHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req updateEntryRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.timerService.UpdateEntry(user.ID, r.PathValue("id"), req.StartedAt, req.EndedAt)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TimerHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.timerService.DeleteEntry(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TimerHandler) SetEntryTags(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req setTagsRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.timerService.SetEntryTags(user.ID, r.PathValue("id"), req.TagIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
