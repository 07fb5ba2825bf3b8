package app

import (
	"fmt"
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/avolkov/tourcal/external/feed"
	"github.com/avolkov/tourcal/internal/config"
	"github.com/avolkov/tourcal/internal/domain/calendar"
	"github.com/avolkov/tourcal/internal/domain/snapshot"
	"github.com/avolkov/tourcal/internal/infrastructure/repository/memory"
	"github.com/avolkov/tourcal/internal/infrastructure/repository/postgres"
	"github.com/avolkov/tourcal/internal/interfaces/httpapi"
	"github.com/avolkov/tourcal/internal/platform/logging"
	"github.com/avolkov/tourcal/internal/platform/resilience"
	"github.com/avolkov/tourcal/internal/usecase"

	_ "github.com/lib/pq"
)

// Services bundles the use-case layer plus whatever resources it holds
// open. Every process (api, pipeline, bot) builds the same graph and
// picks the pieces it needs.
type Services struct {
	Query     *usecase.QueryService
	Ingestion *usecase.IngestionService
	Scrape    *usecase.ScrapeService
	Calendar  *usecase.CalendarService
	Pipeline  *usecase.PipelineService

	closers []func() error
}

// Close releases held resources (currently the database pool, if any).
func (s *Services) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = crerr.CombineErrors(err, s.closers[i]())
	}
	return err
}

func BuildServices(cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		snapshotStore snapshot.Store
		calendarRepo  calendar.Repository
		closers       []func() error
	)

	if cfg.DBURL != "" {
		db, err := openDB(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		closers = append(closers, db.Close)
		snapshotStore = postgres.NewSnapshotRepository(db)
		calendarRepo = postgres.NewCalendarRepository(db)
		logger.Info("storage configured", "backend", "postgres", "db", dbNameFromURL(cfg.DBURL))
	} else {
		snapshotStore = memory.NewSnapshotRepository()
		calendarRepo = memory.NewCalendarRepository()
		logger.Info("storage configured", "backend", "memory")
	}

	feedClient := feed.NewClient(feed.ClientConfig{
		BaseURL:    cfg.FeedBaseURL,
		Token:      cfg.FeedToken,
		Timeout:    cfg.FeedTimeout,
		MaxRetries: cfg.FeedMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailures,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			ProbeLimit:       cfg.FeedCircuitProbeLimit,
		},
	})

	ingestionSvc := usecase.NewIngestionService(snapshotStore)
	scrapeSvc := usecase.NewScrapeService(feedClient, ingestionSvc, logger)
	calendarSvc := usecase.NewCalendarService(snapshotStore, feedClient, calendarRepo, logger, usecase.CalendarServiceConfig{
		MaxTourCount: cfg.MaxTourCount,
		BatchWindow:  cfg.BatchWindow,
	})
	pipelineSvc := usecase.NewPipelineService(
		scrapeSvc,
		calendarSvc,
		cfg.Leagues,
		logger,
		usecase.WithPipelineWorkers(cfg.PipelineWorkers),
		usecase.WithLeagueTimeout(cfg.LeagueTimeout),
	)
	querySvc := usecase.NewQueryService(cfg.Leagues, calendarRepo)

	return &Services{
		Query:     querySvc,
		Ingestion: ingestionSvc,
		Scrape:    scrapeSvc,
		Calendar:  calendarSvc,
		Pipeline:  pipelineSvc,
		closers:   closers,
	}, nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, *Services, error) {
	services, err := BuildServices(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	handler := httpapi.NewHandler(services.Query, services.Ingestion, services.Pipeline, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = services.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, services, nil
}

func openDB(rawURL string) (*sqlx.DB, error) {
	dsn := normalizeDBURL(rawURL, true)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(rawURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}
