package handler

import (
	"net/http"
	"time"

	"github.com/habimori/habimori/internal/ctxkeys"
	"github.com/habimori/habimori/internal/service"
)

// Calendar views request at most ~6 weeks of days at a time; this caps abuse
// of the from/to expansion.
const maxCalendarDays = 100

type CalendarHandler struct {
	calendarService *service.CalendarService
}

func NewCalendarHandler(calendarService *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
	}
}

// DayStatuses returns per-day status triples for the inclusive range given
// by ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *CalendarHandler) DayStatuses(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not be before from")
		return
	}

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
		if len(days) > maxCalendarDays {
			writeError(w, http.StatusBadRequest, "date range too large")
			return
		}
	}

	statuses, err := h.calendarService.DayStatuses(user.ID, days)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statuses)
}
