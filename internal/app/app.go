package app

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/courtdata/nba-analytics/external/balldontlie"
	"github.com/courtdata/nba-analytics/internal/config"
	"github.com/courtdata/nba-analytics/internal/domain/average"
	"github.com/courtdata/nba-analytics/internal/domain/game"
	"github.com/courtdata/nba-analytics/internal/domain/headtohead"
	"github.com/courtdata/nba-analytics/internal/domain/player"
	"github.com/courtdata/nba-analytics/internal/domain/standing"
	"github.com/courtdata/nba-analytics/internal/domain/stat"
	"github.com/courtdata/nba-analytics/internal/domain/streak"
	"github.com/courtdata/nba-analytics/internal/domain/syncrun"
	"github.com/courtdata/nba-analytics/internal/domain/team"
	"github.com/courtdata/nba-analytics/internal/infrastructure/repository/memory"
	"github.com/courtdata/nba-analytics/internal/infrastructure/repository/postgres"
	"github.com/courtdata/nba-analytics/internal/interfaces/httpapi"
	"github.com/courtdata/nba-analytics/internal/platform/cache"
	"github.com/courtdata/nba-analytics/internal/platform/logging"
	"github.com/courtdata/nba-analytics/internal/usecase"
)

// App bundles the HTTP server with the long-lived resources it depends on.
type App struct {
	Server    *http.Server
	Scheduler *Scheduler

	db     *sqlx.DB
	logger *logging.Logger
}

type repositories struct {
	teams     team.Repository
	players   player.Repository
	games     game.Repository
	stats     stat.Repository
	averages  average.Repository
	standings standing.Repository
	headhead  headtohead.Repository
	streaks   streak.Repository
	runs      syncrun.Repository
}

// New wires repositories, services, and the HTTP server from config. When
// DB_URL is set the app runs against Postgres; otherwise it falls back to
// in-memory repositories, which is what local development and tests use.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, errors.New("http server addr cannot be empty")
	}

	var (
		repos repositories
		db    *sqlx.DB
	)
	if cfg.DBURL != "" {
		var err error
		db, err = openDatabase(ctx, cfg.DBURL)
		if err != nil {
			return nil, err
		}
		repos = postgresRepositories(db)
		logger.Info("storage configured", "backend", "postgres", "database", dbNameFromURL(cfg.DBURL))
	} else {
		repos = memoryRepositories()
		logger.Info("storage configured", "backend", "memory")
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	provider := balldontlie.NewClient(balldontlie.ClientConfig{
		BaseURL:     cfg.ProviderBaseURL,
		APIKey:      cfg.ProviderAPIKey,
		Timeout:     cfg.ProviderTimeout,
		MaxRetries:  cfg.ProviderMaxRetries,
		PerPage:     cfg.ProviderPerPage,
		MinInterval: cfg.ProviderMinInterval,
		Logger:      logger,
	})

	aggregationSvc := usecase.NewAggregationService(
		repos.games,
		repos.stats,
		repos.averages,
		repos.standings,
		repos.headhead,
		repos.streaks,
		cfg.StreakWorkerCount,
		logger,
	)
	syncSvc := usecase.NewSyncService(
		provider,
		repos.teams,
		repos.players,
		repos.games,
		repos.stats,
		repos.runs,
		aggregationSvc,
		cfg.SyncAbortThreshold,
		logger,
	)
	analyticsSvc := usecase.NewAnalyticsService(
		repos.stats,
		repos.averages,
		repos.standings,
		repos.headhead,
		repos.streaks,
		cacheStore,
	)
	rollingSvc := usecase.NewRollingService(repos.stats, logger)
	playerSvc := usecase.NewPlayerService(repos.players, cacheStore)
	teamSvc := usecase.NewTeamService(repos.teams, cacheStore)

	handler := httpapi.NewHandler(teamSvc, playerSvc, analyticsSvc, rollingSvc, syncSvc, aggregationSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	var scheduler *Scheduler
	if cfg.SchedulerEnabled {
		scheduler = NewScheduler(syncSvc, cfg.SchedulerSeason, cfg.SchedulerHourUTC, logger)
	}

	return &App{
		Server:    server,
		Scheduler: scheduler,
		db:        db,
		logger:    logger,
	}, nil
}

// Close releases resources that outlive the HTTP server.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		teams:     postgres.NewTeamRepository(db),
		players:   postgres.NewPlayerRepository(db),
		games:     postgres.NewGameRepository(db),
		stats:     postgres.NewStatRepository(db),
		averages:  postgres.NewAverageRepository(db),
		standings: postgres.NewStandingRepository(db),
		headhead:  postgres.NewHeadToHeadRepository(db),
		streaks:   postgres.NewStreakRepository(db),
		runs:      postgres.NewSyncRunRepository(db),
	}
}

func memoryRepositories() repositories {
	return repositories{
		teams:     memory.NewTeamRepository(),
		players:   memory.NewPlayerRepository(),
		games:     memory.NewGameRepository(),
		stats:     memory.NewStatRepository(),
		averages:  memory.NewAverageRepository(),
		standings: memory.NewStandingRepository(),
		headhead:  memory.NewHeadToHeadRepository(),
		streaks:   memory.NewStreakRepository(),
		runs:      memory.NewSyncRunRepository(),
	}
}
