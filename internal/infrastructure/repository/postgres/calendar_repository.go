package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/avolkov/tourcal/internal/domain/calendar"
	qb "github.com/avolkov/tourcal/internal/platform/querybuilder"
)

// CalendarRepository owns the published calendar table. Replace runs the
// soft-delete of the previous generation and the inserts of the next one
// in a single transaction, so readers on the default isolation level see
// one complete generation or the other.
type CalendarRepository struct {
	db *sqlx.DB
}

func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

func (r *CalendarRepository) Replace(ctx context.Context, leagueID string, entries []calendar.Entry) error {
	if leagueID == "" {
		return fmt.Errorf("league id is required")
	}
	// An empty generation never blanks out a previously published one.
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace calendar: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("calendar_entries").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear calendar query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear calendar entries: %w", err)
	}

	for _, entry := range entries {
		model := calendarEntryInsertModel{
			LeagueID:        leagueID,
			HomeTeam:        entry.HomeTeam,
			AwayTeam:        entry.AwayTeam,
			Tour:            entry.Tour,
			HomePointsScore: entry.HomePointsScore,
			AwayPointsScore: entry.AwayPointsScore,
			HomeXGScore:     entry.HomeXGScore,
			AwayXGScore:     entry.AwayXGScore,
		}
		query, args, err := qb.InsertModel("calendar_entries", model, "")
		if err != nil {
			return fmt.Errorf("build insert calendar entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert calendar entry %s-%s: %w", entry.HomeTeam, entry.AwayTeam, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace calendar tx: %w", err)
	}
	return nil
}

func (r *CalendarRepository) ListByLeague(ctx context.Context, leagueID string) ([]calendar.Entry, error) {
	query, args, err := qb.Select("*").From("calendar_entries").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("tour", "home_team", "away_team", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list calendar query: %w", err)
	}

	var rows []calendarEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list calendar entries: %w", err)
	}

	out := make([]calendar.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, calendar.Entry{
			LeagueID:        row.LeagueID,
			HomeTeam:        row.HomeTeam,
			AwayTeam:        row.AwayTeam,
			Tour:            row.Tour,
			HomePointsScore: row.HomePointsScore,
			AwayPointsScore: row.AwayPointsScore,
			HomeXGScore:     row.HomeXGScore,
			AwayXGScore:     row.AwayXGScore,
		})
	}
	return out, nil
}
