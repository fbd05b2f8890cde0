package handler

import (
	"net/http"

	"github.com/habimori/habimori/internal/ctxkeys"
	"github.com/habimori/habimori/internal/service"
)

type CounterHandler struct {
	counterService *service.CounterService
}

func NewCounterHandler(counterService *service.CounterService) *CounterHandler {
	return &CounterHandler{
		counterService: counterService,
	}
}

type incrementRequest struct {
	Delta int `json:"delta"`
}

type incrementResponse struct {
	Pending int `json:"pending"`
}

// Increment applies a coalesced counter delta. A previous batch that failed
// to persist is reported as a conflict instead, so the client resyncs before
// counting further.
func (h *CounterHandler) Increment(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	if flushErr := h.counterService.TakeFlushError(goalID); flushErr != nil {
		writeError(w, http.StatusConflict, flushErr.Error())
		return
	}

	var req incrementRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pending, err := h.counterService.Increment(user.ID, goalID, req.Delta)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, incrementResponse{Pending: pending})
}

// Flush forces the pending batch to persist, for clients that want the write
// confirmed before navigating away.
func (h *CounterHandler) Flush(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("id")

	h.counterService.Flush(goalID)

	if flushErr := h.counterService.TakeFlushError(goalID); flushErr != nil {
		writeError(w, http.StatusConflict, flushErr.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
