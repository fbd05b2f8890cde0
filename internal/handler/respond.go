package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/habimori/habimori/internal/period"
	"github.com/habimori/habimori/internal/repository"
	"github.com/habimori/habimori/internal/service"
	"github.com/habimori/habimori/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError maps known service and repository errors onto HTTP
// statuses. Unknown errors become an opaque 500; the details stay in the log.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, repository.ErrTimeEntryNotFound),
		errors.Is(err, repository.ErrContextNotFound),
		errors.Is(err, repository.ErrTagNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTimerRunning),
		errors.Is(err, service.ErrTimerNotRunning),
		errors.Is(err, service.ErrGoalArchived),
		errors.Is(err, service.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidGoalType),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrInvalidTargetOp),
		errors.Is(err, service.ErrTargetNegative),
		errors.Is(err, service.ErrEndDateBeforeStart),
		errors.Is(err, service.ErrWrongGoalType),
		errors.Is(err, service.ErrDeltaNotPositive),
		errors.Is(err, service.ErrEndBeforeStart),
		errors.Is(err, validation.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseDate parses a YYYY-MM-DD query value as local midnight.
func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(period.DateFormat, value, time.Local)
}
