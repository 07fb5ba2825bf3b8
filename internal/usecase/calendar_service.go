package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/avolkov/tourcal/internal/domain/calendar"
	"github.com/avolkov/tourcal/internal/domain/league"
	"github.com/avolkov/tourcal/internal/domain/snapshot"
	"github.com/avolkov/tourcal/internal/domain/tour"
	"github.com/avolkov/tourcal/internal/platform/logging"
)

const DefaultMaxTourCount = 3

type CalendarServiceConfig struct {
	MaxTourCount int
	BatchWindow  time.Duration
}

// CalendarService recomputes and publishes one league's difficulty calendar
// from whatever snapshots resolved cleanly. Every step degrades to "publish
// nothing" rather than failing the run; only a storage error from the
// publish swap itself propagates.
type CalendarService struct {
	store        snapshot.Store
	tourSource   tour.Source
	calendarRepo calendar.Repository
	logger       *logging.Logger
	maxTourCount int
	batchWindow  time.Duration
}

func NewCalendarService(
	store snapshot.Store,
	tourSource tour.Source,
	calendarRepo calendar.Repository,
	logger *logging.Logger,
	cfg CalendarServiceConfig,
) *CalendarService {
	if logger == nil {
		logger = logging.Default()
	}
	maxTourCount := cfg.MaxTourCount
	if maxTourCount <= 0 {
		maxTourCount = DefaultMaxTourCount
	}

	return &CalendarService{
		store:        store,
		tourSource:   tourSource,
		calendarRepo: calendarRepo,
		logger:       logger,
		maxTourCount: maxTourCount,
		batchWindow:  cfg.BatchWindow,
	}
}

// RebuildLeague runs resolve -> align -> score -> publish for one league
// and reports how many entries it published. An empty computed calendar
// skips the publish, leaving the previously published generation in place.
func (s *CalendarService) RebuildLeague(ctx context.Context, lg league.League) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CalendarService.RebuildLeague")
	defer span.End()

	if err := lg.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var scheduleRecords, tableRecords []snapshot.Record
	queries := pool.New().WithErrors().WithContext(ctx)
	queries.Go(func(ctx context.Context) error {
		var err error
		scheduleRecords, err = s.store.Query(ctx, lg.ID, lg.Season, snapshot.KindSchedule, nil)
		if err != nil {
			return fmt.Errorf("query schedule snapshots: %w", err)
		}
		return nil
	})
	queries.Go(func(ctx context.Context) error {
		var err error
		tableRecords, err = s.store.Query(ctx, lg.ID, lg.Season, snapshot.KindTable, nil)
		if err != nil {
			return fmt.Errorf("query table snapshots: %w", err)
		}
		return nil
	})
	if err := queries.Wait(); err != nil {
		return 0, fmt.Errorf("load snapshots league=%s: %w", lg.ID, err)
	}

	opts := ResolveOptions{BatchWindow: s.batchWindow}
	fixtures := fixturesFromRecords(ResolveLatest(scheduleRecords, opts))
	table := tableFromRecords(ResolveLatest(tableRecords, opts))

	tours, err := s.tourSource.FetchTours(ctx, lg.ID)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		// Advisory output: a missing tour source means an empty window this
		// run, not a failed league.
		s.logger.WarnContext(ctx, "fetch tours failed, skipping publish", "league_id", lg.ID, "error", err)
		return 0, nil
	}
	sort.SliceStable(tours, func(i, j int) bool { return tours[i].Number < tours[j].Number })

	upcoming := make([]ResolvedFixture, 0, len(fixtures))
	for _, fixture := range fixtures {
		if fixture.Played() {
			continue
		}
		upcoming = append(upcoming, fixture)
	}

	aligned := AlignFixtures(upcoming, tours, s.maxTourCount)
	entries := ScoreFixtures(lg.ID, aligned, table)
	if len(entries) == 0 {
		s.logger.InfoContext(ctx, "empty calendar computed, keeping previous generation",
			"league_id", lg.ID,
			"fixtures", len(upcoming),
			"tours", len(tours),
		)
		return 0, nil
	}

	if err := s.calendarRepo.Replace(ctx, lg.ID, entries); err != nil {
		return 0, fmt.Errorf("replace calendar league=%s: %w", lg.ID, err)
	}

	s.logger.InfoContext(ctx, "calendar published",
		"league_id", lg.ID,
		"entries", len(entries),
		"tours", distinctTours(entries),
	)
	return len(entries), nil
}

// fixturesFromRecords turns resolved schedule records into a fixture list
// sorted by date, with team names and date breaking ties so repeated runs
// over the same snapshots order identically.
func fixturesFromRecords(resolved map[string]snapshot.Record) []ResolvedFixture {
	out := make([]ResolvedFixture, 0, len(resolved))
	for _, record := range resolved {
		if len(record.KeyParts) < 2 || record.Payload.Date == nil {
			continue
		}
		out = append(out, ResolvedFixture{
			HomeTeam:  record.KeyParts[0],
			AwayTeam:  record.KeyParts[1],
			Date:      *record.Payload.Date,
			HomeGoals: record.Payload.HomeGoals,
			AwayGoals: record.Payload.AwayGoals,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].HomeTeam != out[j].HomeTeam {
			return out[i].HomeTeam < out[j].HomeTeam
		}
		return out[i].AwayTeam < out[j].AwayTeam
	})
	return out
}

func tableFromRecords(resolved map[string]snapshot.Record) map[string]ResolvedTableRow {
	out := make(map[string]ResolvedTableRow, len(resolved))
	for _, record := range resolved {
		if len(record.KeyParts) < 1 {
			continue
		}
		team := record.KeyParts[0]
		out[team] = ResolvedTableRow{
			Team:      team,
			Points:    record.Payload.Points,
			Position:  record.Payload.Position,
			Played:    record.Payload.Played,
			XGFor:     record.Payload.XGFor,
			XGAgainst: record.Payload.XGAgainst,
		}
	}
	return out
}

func distinctTours(entries []calendar.Entry) int {
	seen := make(map[int]struct{}, len(entries))
	for _, entry := range entries {
		seen[entry.Tour] = struct{}{}
	}
	return len(seen)
}
