package handler

import (
	"net/http"

	"github.com/habimori/habimori/internal/ctxkeys"
	"github.com/habimori/habimori/internal/service"
)

type ContextHandler struct {
	contextService *service.ContextService
}

func NewContextHandler(contextService *service.ContextService) *ContextHandler {
	return &ContextHandler{
		contextService: contextService,
	}
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *ContextHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req nameRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.contextService.CreateContext(user.ID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

func (h *ContextHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	contexts, err := h.contextService.Contexts(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contexts)
}

func (h *ContextHandler) Rename(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req nameRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.contextService.RenameContext(user.ID, r.PathValue("id"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes the context and, through foreign keys, every goal and event
// inside it.
func (h *ContextHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.contextService.DeleteContext(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ContextHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req nameRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tag, err := h.contextService.CreateTag(user.ID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tag)
}

func (h *ContextHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	tags, err := h.contextService.Tags(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

func (h *ContextHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.contextService.DeleteTag(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
