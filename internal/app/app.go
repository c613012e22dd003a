// Package app wires the pipeline's Postgres repositories, fetch/normalize/
// grade/score components, scheduler, worker pool, and HTTP surface into
// one dependency graph from a single entrypoint.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/pickline/aggregator/external/jobqueue"
	"github.com/pickline/aggregator/internal/adapter"
	"github.com/pickline/aggregator/internal/config"
	"github.com/pickline/aggregator/internal/fetch"
	"github.com/pickline/aggregator/internal/grading"
	postgresrepo "github.com/pickline/aggregator/internal/infrastructure/repository/postgres"
	"github.com/pickline/aggregator/internal/interfaces/httpapi"
	"github.com/pickline/aggregator/internal/normalize"
	basecache "github.com/pickline/aggregator/internal/platform/cache"
	idgen "github.com/pickline/aggregator/internal/platform/id"
	"github.com/pickline/aggregator/internal/platform/logging"
	"github.com/pickline/aggregator/internal/platform/resilience"
	"github.com/pickline/aggregator/internal/scheduler"
	"github.com/pickline/aggregator/internal/scoring"
	"github.com/pickline/aggregator/internal/snapshotstore"
	"github.com/pickline/aggregator/internal/usecase"
	"github.com/pickline/aggregator/internal/worker"
)

// supportedSports lists every sport a team.Repository-backed resolver is
// registered for at startup; a source whose adapter.Config names a sport
// outside this set fails normalization the first time a pick for it
// arrives, surfaced as a normal normalize error rather than a panic.
var supportedSports = []string{"nba", "nfl", "mlb", "nhl", "soccer"}

// Graph holds every long-lived component NewGraph builds, so cmd/api and
// cmd/worker can each start only the pieces they need from one shared
// construction path.
type Graph struct {
	DB        interface{ Close() error }
	Router    http.Handler
	Scheduler *scheduler.Scheduler
	Worker    *worker.Pool
}

func NewGraph(cfg config.Config, logger *logging.Logger) (*Graph, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	teamRepo := postgresrepo.NewTeamRepository(db)
	matchRepo := postgresrepo.NewMatchRepository(db)
	predictionRepo := postgresrepo.NewPredictionRepository(db)
	matchResultRepo := postgresrepo.NewMatchResultRepository(db)
	snapshotRepo := postgresrepo.NewSnapshotRepository(db)
	sourceRepo := postgresrepo.NewSourceRepository(db)
	accuracyRepo := postgresrepo.NewSourceAccuracyRepository(db)
	jobDispatchRepo := postgresrepo.NewJobDispatchRepository(db)
	scoringLoader := postgresrepo.NewScoringLoader(db, cfg.ScoringWindowDays)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.KVAddr})

	snapshotStore := snapshotstore.New(cfg.SnapshotDir)

	adapters := adapter.NewRegistry()
	registerAdapters(adapters)

	rateLimiter := fetch.NewRateLimiter()
	robotsGate := fetch.NewRobotsGate(cfg.ServiceName+"/1.0", 24*time.Hour)
	httpFetcher := fetch.NewHTTPFetcher(cfg.ServiceName+"/1.0", cfg.AdapterTimeout, logger)
	browserFetcher := fetch.NewBrowserFetcher(nil, 10*time.Second)
	dispatcher := &fetch.Dispatcher{HTTP: httpFetcher, Browser: browserFetcher}

	ids := idgen.NewRandomGenerator()
	normalizer := normalize.New(matchRepo, predictionRepo, ids, logger)
	for _, sport := range supportedSports {
		resolver := normalize.NewTeamResolver(sport, teamRepo)
		if err := resolver.Refresh(pingCtx); err != nil {
			logger.Warn("team resolver initial refresh failed", "sport", sport, "error", err)
		}
		normalizer.RegisterResolver(sport, resolver)
	}

	grader := grading.NewGrader(predictionRepo, logger)

	resultCache := basecache.NewStore(cfg.ScoringResultCacheTTL)
	scoringEngine := scoring.NewEngine(scoringLoader, resultCache, logger)

	workerCfg := worker.DefaultConfig()
	workerCfg.Concurrency = cfg.WorkerPoolSize
	workerCfg.PollInterval = cfg.WorkerPollInterval
	workerCfg.ClaimBatch = cfg.WorkerClaimBatchSize
	workerCfg.UserAgent = cfg.ServiceName + "/1.0"

	workerPool, err := worker.New(
		workerCfg,
		jobDispatchRepo,
		sourceRepo,
		snapshotRepo,
		matchResultRepo,
		snapshotStore,
		dispatcher,
		rateLimiter,
		robotsGate,
		adapters,
		normalizer,
		grader,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("build worker pool: %w", err)
	}

	var jobQueue scheduler.JobQueue = scheduler.NewNoopJobQueue(logger)
	if cfg.QStashEnabled {
		jobQueue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker:   resilience.DefaultCircuitBreakerConfig(),
		}, slog.Default())
	}

	lease := scheduler.NewLease(redisClient, "pickline:scheduler:leader", cfg.CronLeaseTTL)
	schedulerCfg := scheduler.DefaultConfig()
	schedulerCfg.LeaseTTL = cfg.CronLeaseTTL
	sched := scheduler.New(sourceRepo, jobDispatchRepo, jobQueue, lease, schedulerCfg, logger)

	queries := usecase.NewPredictionQueryService(predictionRepo, matchRepo, accuracyRepo, scoringEngine)
	dashboard := usecase.NewDashboardService(sourceRepo, accuracyRepo, jobDispatchRepo, cfg.ScoringWindowDays)

	handler := httpapi.NewHandler(queries, dashboard)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	return &Graph{
		DB:        db,
		Router:    router,
		Scheduler: sched,
		Worker:    workerPool,
	}, nil
}

// NewHTTPHandler builds just the HTTP surface and a close func, for the
// API-only process.
func NewHTTPHandler(cfg config.Config, logger *logging.Logger) (http.Handler, func() error, error) {
	graph, err := NewGraph(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return graph.Router, graph.DB.Close, nil
}

// NewHTTPServer builds the full dependency graph and returns a ready-to-run
// *http.Server, so cmd/api only needs to call ListenAndServe/Shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	graph, err := NewGraph(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      graph.Router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

// NewWorkerGraph builds the full dependency graph for the ingestion
// process: the cron scheduler plus the claiming worker pool, with no HTTP
// surface started.
func NewWorkerGraph(cfg config.Config, logger *logging.Logger) (*Graph, error) {
	return NewGraph(cfg, logger)
}
