package usecase

import (
	"context"
	"time"

	"github.com/avolkov/tourcal/internal/domain/league"
)

// ExternalFixtureRow is one schedule entry as reported by a scrape feed.
type ExternalFixtureRow struct {
	HomeTeam  string
	AwayTeam  string
	Date      time.Time
	HomeGoals *int
	AwayGoals *int
}

// ExternalTableRow is one league-table entry as reported by a scrape feed.
type ExternalTableRow struct {
	Team      string
	Points    *int
	Position  *int
	Played    *int
	XGFor     *float64
	XGAgainst *float64
}

// ExternalOddsRow is one betting-odds entry as reported by a scrape feed.
type ExternalOddsRow struct {
	HomeTeam    string
	AwayTeam    string
	Date        *time.Time
	HomeWinOdds *float64
	DrawOdds    *float64
	AwayWinOdds *float64
}

// FeedClient fetches typed scrape results for a league. A failed fetch
// yields an error and no rows; callers treat that the same as "nothing new
// happened this cycle" and never as a deletion signal.
type FeedClient interface {
	FetchSchedule(ctx context.Context, lg league.League) ([]ExternalFixtureRow, error)
	FetchTable(ctx context.Context, lg league.League) ([]ExternalTableRow, error)
	FetchOdds(ctx context.Context, lg league.League) ([]ExternalOddsRow, error)
}
