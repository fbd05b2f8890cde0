package handler

import (
	"net/http"

	"github.com/habimori/habimori/internal/ctxkeys"
	"github.com/habimori/habimori/internal/service"
)

type CheckHandler struct {
	checkService *service.CheckService
}

func NewCheckHandler(checkService *service.CheckService) *CheckHandler {
	return &CheckHandler{
		checkService: checkService,
	}
}

type toggleRequest struct {
	State bool `json:"state"`
}

func (h *CheckHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req toggleRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.checkService.Toggle(user.ID, r.PathValue("id"), req.State)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
