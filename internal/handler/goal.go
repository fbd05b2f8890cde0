package handler

import (
	"net/http"

	"github.com/habimori/habimori/internal/ctxkeys"
	"github.com/habimori/habimori/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type createGoalRequest struct {
	ContextID   string  `json:"context_id"`
	Title       string  `json:"title"`
	GoalType    string  `json:"goal_type"`
	Period      string  `json:"period"`
	TargetValue float64 `json:"target_value"`
	TargetOp    string  `json:"target_op"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createGoalRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	goal, err := h.goalService.Create(user.ID, service.CreateGoalInput{
		ContextID:   req.ContextID,
		Title:       req.Title,
		GoalType:    req.GoalType,
		Period:      req.Period,
		TargetValue: req.TargetValue,
		TargetOp:    req.TargetOp,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.Goals(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.ByID(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

type updateGoalRequest struct {
	Title       string  `json:"title"`
	EndDate     string  `json:"end_date"`
	TargetValue float64 `json:"target_value"`
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	var req updateGoalRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	endDate, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	err = h.goalService.Update(user.ID, goalID, req.Title, endDate, req.TargetValue)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	goal, err := h.goalService.ByID(user.ID, goalID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Archive(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.Archive(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.Delete(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Progress returns the live value of the goal's current period, including
// running-timer elapsed and unflushed counter deltas.
func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	progress, err := h.goalService.Progress(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

func (h *GoalHandler) Periods(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	periods, err := h.goalService.Periods(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, periods)
}

type setTagsRequest struct {
	TagIDs []string `json:"tag_ids"`
}

func (h *GoalHandler) SetTags(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req setTagsRequest
	err := decode(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.goalService.SetTags(user.ID, r.PathValue("id"), req.TagIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) Tags(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	tags, err := h.goalService.Tags(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tags)
}
