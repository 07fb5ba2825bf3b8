package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/avolkov/tourcal/internal/domain/league"
	"github.com/avolkov/tourcal/internal/platform/logging"
)

const (
	// DefaultPipelineWorkers bounds concurrent per-league runs so a large
	// league set does not hammer the feed or the database at once.
	DefaultPipelineWorkers = 4

	// DefaultLeagueTimeout caps a single league's scrape+rebuild cycle.
	DefaultLeagueTimeout = 2 * time.Minute
)

// PipelineService fans one full cycle (scrape, then rebuild) out over the
// configured leagues. A failure in one league never blocks or aborts the
// others, and a failed league keeps its previously published calendar.
type PipelineService struct {
	scrape        *ScrapeService
	calendar      *CalendarService
	leagues       []league.League
	logger        *logging.Logger
	workers       int
	leagueTimeout time.Duration
}

type PipelineOption func(*PipelineService)

func WithPipelineWorkers(n int) PipelineOption {
	return func(s *PipelineService) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithLeagueTimeout(d time.Duration) PipelineOption {
	return func(s *PipelineService) {
		if d > 0 {
			s.leagueTimeout = d
		}
	}
}

func NewPipelineService(scrape *ScrapeService, calendar *CalendarService, leagues []league.League, logger *logging.Logger, opts ...PipelineOption) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	s := &PipelineService{
		scrape:        scrape,
		calendar:      calendar,
		leagues:       leagues,
		logger:        logger,
		workers:       DefaultPipelineWorkers,
		leagueTimeout: DefaultLeagueTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LeagueRunReport describes one league's outcome within a pipeline run.
type LeagueRunReport struct {
	LeagueID  string        `json:"league_id"`
	Scrape    ScrapeReport  `json:"scrape"`
	Published int           `json:"published"`
	Duration  time.Duration `json:"duration"`
	Err       string        `json:"error,omitempty"`
}

// RunReport aggregates a full pipeline cycle.
type RunReport struct {
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Leagues   []LeagueRunReport `json:"leagues"`
}

// RunAll executes scrape+rebuild for every configured league using a
// bounded worker pool. The returned report lists every league in ID
// order regardless of completion order.
func (s *PipelineService) RunAll(ctx context.Context) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.RunAll")
	defer span.End()

	startedAt := time.Now()
	report := RunReport{StartedAt: startedAt}
	if len(s.leagues) == 0 {
		return report, nil
	}

	workerPool, err := ants.NewPool(s.workers)
	if err != nil {
		return report, fmt.Errorf("create pipeline pool: %w", err)
	}
	defer workerPool.Release()

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		failed    atomic.Int64
	)
	results := make(chan LeagueRunReport, len(s.leagues))

	for _, lg := range s.leagues {
		lg := lg
		wg.Add(1)
		submitErr := workerPool.Submit(func() {
			defer wg.Done()
			row := s.runLeague(ctx, lg)
			if row.Err == "" {
				succeeded.Add(1)
			} else {
				failed.Add(1)
			}
			results <- row
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(1)
			results <- LeagueRunReport{LeagueID: lg.ID, Err: submitErr.Error()}
		}
	}

	wg.Wait()
	close(results)

	for row := range results {
		report.Leagues = append(report.Leagues, row)
	}
	sort.SliceStable(report.Leagues, func(i, j int) bool {
		return report.Leagues[i].LeagueID < report.Leagues[j].LeagueID
	})

	report.Succeeded = int(succeeded.Load())
	report.Failed = int(failed.Load())
	report.Duration = time.Since(startedAt)

	s.logger.InfoContext(ctx, "pipeline run finished",
		"leagues", len(s.leagues),
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"duration", report.Duration.String(),
	)
	return report, ctx.Err()
}

func (s *PipelineService) runLeague(ctx context.Context, lg league.League) LeagueRunReport {
	ctx, cancel := context.WithTimeout(ctx, s.leagueTimeout)
	defer cancel()

	start := time.Now()
	row := LeagueRunReport{LeagueID: lg.ID}

	scrapeReport, err := s.scrape.SyncLeague(ctx, lg)
	if err != nil {
		s.logger.ErrorContext(ctx, "league scrape failed", "league_id", lg.ID, "error", err)
		row.Err = err.Error()
		row.Duration = time.Since(start)
		return row
	}
	row.Scrape = scrapeReport

	published, err := s.calendar.RebuildLeague(ctx, lg)
	if err != nil {
		s.logger.ErrorContext(ctx, "league rebuild failed", "league_id", lg.ID, "error", err)
		row.Err = err.Error()
		row.Duration = time.Since(start)
		return row
	}
	row.Published = published
	row.Duration = time.Since(start)
	return row
}
