package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/avolkov/tourcal/internal/domain/league"
	"github.com/avolkov/tourcal/internal/domain/snapshot"
	"github.com/avolkov/tourcal/internal/platform/logging"
)

// ScrapeService runs one scrape cycle for a league: fetch typed rows from
// the feed and append them to the snapshot store stamped with a shared
// capture time, so the resolver later sees them as one ingestion batch.
// A feed failure for one kind is logged and skipped; existing snapshots
// are never touched.
type ScrapeService struct {
	feed      FeedClient
	ingestion *IngestionService
	logger    *logging.Logger
	now       func() time.Time
}

func NewScrapeService(feed FeedClient, ingestion *IngestionService, logger *logging.Logger) *ScrapeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScrapeService{
		feed:      feed,
		ingestion: ingestion,
		logger:    logger,
		now:       time.Now,
	}
}

type ScrapeReport struct {
	LeagueID        string `json:"league_id"`
	ScheduleRecords int    `json:"schedule_records"`
	TableRecords    int    `json:"table_records"`
	OddsRecords     int    `json:"odds_records"`
}

func (s *ScrapeService) SyncLeague(ctx context.Context, lg league.League) (ScrapeReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScrapeService.SyncLeague")
	defer span.End()

	if err := lg.Validate(); err != nil {
		return ScrapeReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	capturedAt := s.now().UTC()
	report := ScrapeReport{LeagueID: lg.ID}

	var mu sync.Mutex
	records := make([]snapshot.Record, 0, 64)
	appendRecords := func(batch []snapshot.Record) {
		mu.Lock()
		records = append(records, batch...)
		mu.Unlock()
	}

	fetches := pool.New().WithContext(ctx)
	fetches.Go(func(ctx context.Context) error {
		rows, err := s.feed.FetchSchedule(ctx, lg)
		if err != nil {
			s.logger.WarnContext(ctx, "fetch schedule failed", "league_id", lg.ID, "error", err)
			return nil
		}
		batch := scheduleRecords(lg, rows, capturedAt)
		report.ScheduleRecords = len(batch)
		appendRecords(batch)
		return nil
	})
	fetches.Go(func(ctx context.Context) error {
		rows, err := s.feed.FetchTable(ctx, lg)
		if err != nil {
			s.logger.WarnContext(ctx, "fetch table failed", "league_id", lg.ID, "error", err)
			return nil
		}
		batch := tableRecords(lg, rows, capturedAt)
		report.TableRecords = len(batch)
		appendRecords(batch)
		return nil
	})
	fetches.Go(func(ctx context.Context) error {
		rows, err := s.feed.FetchOdds(ctx, lg)
		if err != nil {
			s.logger.WarnContext(ctx, "fetch odds failed", "league_id", lg.ID, "error", err)
			return nil
		}
		batch := oddsRecords(lg, rows, capturedAt)
		report.OddsRecords = len(batch)
		appendRecords(batch)
		return nil
	})
	if err := fetches.Wait(); err != nil {
		return ScrapeReport{}, fmt.Errorf("scrape league=%s: %w", lg.ID, err)
	}

	if _, err := s.ingestion.AppendRecords(ctx, records); err != nil {
		return ScrapeReport{}, fmt.Errorf("ingest scraped records league=%s: %w", lg.ID, err)
	}

	return report, nil
}

func scheduleRecords(lg league.League, rows []ExternalFixtureRow, capturedAt time.Time) []snapshot.Record {
	out := make([]snapshot.Record, 0, len(rows))
	for _, row := range rows {
		if row.HomeTeam == "" || row.AwayTeam == "" || row.Date.IsZero() {
			continue
		}
		date := row.Date
		out = append(out, snapshot.Record{
			League:     lg.ID,
			Season:     lg.Season,
			Kind:       snapshot.KindSchedule,
			KeyParts:   []string{row.HomeTeam, row.AwayTeam},
			CapturedAt: capturedAt,
			Payload: snapshot.Payload{
				Date:      &date,
				HomeGoals: row.HomeGoals,
				AwayGoals: row.AwayGoals,
			},
		})
	}
	return out
}

func tableRecords(lg league.League, rows []ExternalTableRow, capturedAt time.Time) []snapshot.Record {
	out := make([]snapshot.Record, 0, len(rows))
	for _, row := range rows {
		if row.Team == "" {
			continue
		}
		out = append(out, snapshot.Record{
			League:     lg.ID,
			Season:     lg.Season,
			Kind:       snapshot.KindTable,
			KeyParts:   []string{row.Team},
			CapturedAt: capturedAt,
			Payload: snapshot.Payload{
				Points:    row.Points,
				Position:  row.Position,
				Played:    row.Played,
				XGFor:     row.XGFor,
				XGAgainst: row.XGAgainst,
			},
		})
	}
	return out
}

func oddsRecords(lg league.League, rows []ExternalOddsRow, capturedAt time.Time) []snapshot.Record {
	out := make([]snapshot.Record, 0, len(rows))
	for _, row := range rows {
		if row.HomeTeam == "" || row.AwayTeam == "" {
			continue
		}
		key := []string{row.HomeTeam, row.AwayTeam}
		if row.Date != nil {
			key = append(key, strconv.FormatInt(row.Date.Unix(), 10))
		}
		out = append(out, snapshot.Record{
			League:     lg.ID,
			Season:     lg.Season,
			Kind:       snapshot.KindOdds,
			KeyParts:   key,
			CapturedAt: capturedAt,
			Payload: snapshot.Payload{
				Date:        row.Date,
				HomeWinOdds: row.HomeWinOdds,
				DrawOdds:    row.DrawOdds,
				AwayWinOdds: row.AwayWinOdds,
			},
		})
	}
	return out
}
