package routes

import (
	"net/http"

	"github.com/habimori/habimori/internal/app"
	"github.com/habimori/habimori/internal/handler"
	"github.com/habimori/habimori/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	contexts := handler.NewContextHandler(app.ContextService)
	goal := handler.NewGoalHandler(app.GoalService)
	timer := handler.NewTimerHandler(app.TimerService)
	counter := handler.NewCounterHandler(app.CounterService)
	check := handler.NewCheckHandler(app.CheckService)
	calendar := handler.NewCalendarHandler(app.CalendarService)
	stats := handler.NewStatsHandler(app.StatsService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /auth/register", rateLimiter(middleware.RequireGuest(auth.Register)))
	mux.HandleFunc("POST /auth/login", rateLimiter(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("POST /auth/logout", auth.Logout)
	mux.HandleFunc("GET /auth/me", middleware.RequireAuth(auth.Me))

	// Contexts & tags
	mux.HandleFunc("POST /app/contexts", middleware.RequireAuth(contexts.Create))
	mux.HandleFunc("GET /app/contexts", middleware.RequireAuth(contexts.List))
	mux.HandleFunc("PATCH /app/contexts/{id}", middleware.RequireAuth(contexts.Rename))
	mux.HandleFunc("DELETE /app/contexts/{id}", middleware.RequireAuth(contexts.Delete))
	mux.HandleFunc("POST /app/tags", middleware.RequireAuth(contexts.CreateTag))
	mux.HandleFunc("GET /app/tags", middleware.RequireAuth(contexts.ListTags))
	mux.HandleFunc("DELETE /app/tags/{id}", middleware.RequireAuth(contexts.DeleteTag))

	// Goals
	mux.HandleFunc("POST /app/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /app/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("GET /app/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PUT /app/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("POST /app/goals/{id}/archive", middleware.RequireAuth(goal.Archive))
	mux.HandleFunc("DELETE /app/goals/{id}", middleware.RequireAuth(goal.Delete))
	mux.HandleFunc("GET /app/goals/{id}/progress", middleware.RequireAuth(goal.Progress))
	mux.HandleFunc("GET /app/goals/{id}/periods", middleware.RequireAuth(goal.Periods))
	mux.HandleFunc("PUT /app/goals/{id}/tags", middleware.RequireAuth(goal.SetTags))
	mux.HandleFunc("GET /app/goals/{id}/tags", middleware.RequireAuth(goal.Tags))

	// Goal events
	mux.HandleFunc("POST /app/goals/{id}/increment", middleware.RequireAuth(counter.Increment))
	mux.HandleFunc("POST /app/goals/{id}/flush", middleware.RequireAuth(counter.Flush))
	mux.HandleFunc("POST /app/goals/{id}/check", middleware.RequireAuth(check.Toggle))

	// Timer & time entries
	mux.HandleFunc("POST /app/timer/start", middleware.RequireAuth(timer.Start))
	mux.HandleFunc("POST /app/timer/stop", middleware.RequireAuth(timer.Stop))
	mux.HandleFunc("GET /app/timer", middleware.RequireAuth(timer.Running))
	mux.HandleFunc("PATCH /app/entries/{id}", middleware.RequireAuth(timer.UpdateEntry))
	mux.HandleFunc("DELETE /app/entries/{id}", middleware.RequireAuth(timer.DeleteEntry))
	mux.HandleFunc("PUT /app/entries/{id}/tags", middleware.RequireAuth(timer.SetEntryTags))

	// Read views
	mux.HandleFunc("GET /app/calendar", middleware.RequireAuth(calendar.DayStatuses))
	mux.HandleFunc("GET /app/stats", middleware.RequireAuth(stats.Range))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config first: CSRF cookie flags depend on it
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService, app.UserRepo),
	)

	return handler
}
