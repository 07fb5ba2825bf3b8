package usecase

import (
	"github.com/avolkov/tourcal/internal/domain/calendar"
)

// ResolvedTableRow is a league-table row after latest-value resolution.
// Every field is optional; a zero value stands in for a team whose row was
// missing from the newest batch.
type ResolvedTableRow struct {
	Team      string
	Points    *int
	Position  *int
	Played    *int
	XGFor     *float64
	XGAgainst *float64
}

// ScoreFixtures joins aligned fixtures with resolved table rows, producing
// one calendar entry per fixture with directional difficulty scores.
//
// Each side's scores come from invoking the same formulas with the
// arguments swapped, so both perspectives are independently well-defined.
// A missing table row for either team leaves every score nil; nothing is
// fabricated from the side that is present.
func ScoreFixtures(leagueID string, aligned []AlignedFixture, table map[string]ResolvedTableRow) []calendar.Entry {
	out := make([]calendar.Entry, 0, len(aligned))
	for _, fixture := range aligned {
		home := table[fixture.HomeTeam]
		away := table[fixture.AwayTeam]

		out = append(out, calendar.Entry{
			LeagueID:        leagueID,
			HomeTeam:        fixture.HomeTeam,
			AwayTeam:        fixture.AwayTeam,
			Tour:            fixture.Tour,
			HomePointsScore: pointsScore(home, away),
			AwayPointsScore: pointsScore(away, home),
			HomeXGScore:     xgScore(home, away),
			AwayXGScore:     xgScore(away, home),
		})
	}
	return out
}

func pointsScore(a, b ResolvedTableRow) *int {
	if a.Points == nil || b.Points == nil {
		return nil
	}
	diff := *a.Points - *b.Points
	return &diff
}

// xgScore is defined only when all four expected-goals operands are known;
// its absence must not suppress the points score.
func xgScore(a, b ResolvedTableRow) *float64 {
	if a.XGFor == nil || a.XGAgainst == nil || b.XGFor == nil || b.XGAgainst == nil {
		return nil
	}
	diff := (*a.XGFor - *a.XGAgainst) - (*b.XGFor - *b.XGAgainst)
	return &diff
}
