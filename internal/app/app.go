package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/habimori/habimori/internal/config"
	"github.com/habimori/habimori/internal/db"
	"github.com/habimori/habimori/internal/repository"
	"github.com/habimori/habimori/internal/service"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	UserRepo        repository.UserRepository
	AuthService     *service.AuthService
	ContextService  *service.ContextService
	GoalService     *service.GoalService
	TimerService    *service.TimerService
	CounterService  *service.CounterService
	CheckService    *service.CheckService
	RecalcService   *service.RecalcService
	CalendarService *service.CalendarService
	StatsService    *service.StatsService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	contextRepository := repository.NewContextRepository(database)
	tagRepository := repository.NewTagRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	timeEntryRepository := repository.NewTimeEntryRepository(database)
	counterEventRepository := repository.NewCounterEventRepository(database)
	checkEventRepository := repository.NewCheckEventRepository(database)
	goalPeriodRepository := repository.NewGoalPeriodRepository(database)

	// Services. Recalculation sits underneath every mutation path, so it is
	// built first and shared.
	recalcService := service.NewRecalcService(
		goalRepository,
		timeEntryRepository,
		counterEventRepository,
		checkEventRepository,
		goalPeriodRepository,
		cfg.RecalcDebounce,
		nil,
	)
	counterService := service.NewCounterService(
		counterEventRepository,
		goalRepository,
		recalcService,
		cfg.CounterFlushWindow,
		nil,
	)
	authService := service.NewAuthService(
		userRepository,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
	)
	contextService := service.NewContextService(contextRepository, tagRepository, nil)
	goalService := service.NewGoalService(
		goalRepository,
		contextRepository,
		timeEntryRepository,
		counterEventRepository,
		checkEventRepository,
		goalPeriodRepository,
		counterService,
		recalcService,
		nil,
	)
	timerService := service.NewTimerService(timeEntryRepository, goalRepository, recalcService, nil)
	checkService := service.NewCheckService(checkEventRepository, goalRepository, recalcService, nil)
	calendarService := service.NewCalendarService(goalRepository, goalPeriodRepository, recalcService)
	statsService := service.NewStatsService(timeEntryRepository, contextRepository)

	return &App{
		Cfg:             cfg,
		DB:              database,
		UserRepo:        userRepository,
		AuthService:     authService,
		ContextService:  contextService,
		GoalService:     goalService,
		TimerService:    timerService,
		CounterService:  counterService,
		CheckService:    checkService,
		RecalcService:   recalcService,
		CalendarService: calendarService,
		StatsService:    statsService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
