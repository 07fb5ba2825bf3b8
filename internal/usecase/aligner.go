package usecase

import (
	"time"

	"github.com/avolkov/tourcal/internal/domain/tour"
)

// ResolvedFixture is a schedule row after latest-value resolution, ready
// for tour alignment. Goal counts are carried so callers can filter out
// fixtures that were already played.
type ResolvedFixture struct {
	HomeTeam  string
	AwayTeam  string
	Date      time.Time
	HomeGoals *int
	AwayGoals *int
}

// Played reports whether both goal counts are known.
func (f ResolvedFixture) Played() bool {
	return f.HomeGoals != nil && f.AwayGoals != nil
}

// AlignedFixture is a fixture bound to exactly one tour.
type AlignedFixture struct {
	HomeTeam string
	AwayTeam string
	Date     time.Time
	Tour     int
}

// AlignFixtures maps fixtures onto tour intervals, starting at the first
// OPENED or NOT_STARTED tour and looking ahead at most maxTourCount tours.
//
// Fixtures must be sorted ascending by date and tours ascending by number.
// A tour's interval runs from its deadline to the next tour's deadline,
// half-open with the lower bound inclusive; comparison happens at day
// granularity because deadlines carry kickoff-lock times while fixture
// dates are calendar dates. The final tour of the whole list is open-ended.
// Fixtures dated before the window are dropped, never retro-assigned.
//
// Malformed input degrades instead of failing: no tours or no actionable
// tour yields an empty result, and a non-monotonic deadline sequence
// truncates the window at the violation.
func AlignFixtures(fixtures []ResolvedFixture, tours []tour.Descriptor, maxTourCount int) []AlignedFixture {
	if len(fixtures) == 0 || len(tours) == 0 || maxTourCount <= 0 {
		return nil
	}

	start := -1
	for i, t := range tours {
		if tour.IsActionable(t.Status) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	// Usable tours are the prefix with strictly increasing deadlines.
	end := start + 1
	for end < len(tours) && tours[end].Deadline.After(tours[end-1].Deadline) {
		end++
	}
	truncated := end < len(tours)

	window := end - start
	if window > maxTourCount {
		window = maxTourCount
	}

	out := make([]AlignedFixture, 0, len(fixtures))
	cursor := 0
	for j := start; j < start+window; j++ {
		if truncated && j == end-1 {
			// The successor deadline is unreliable, so this tour's upper
			// bound is unknown; stop rather than over-assign.
			break
		}

		lower := dayOf(tours[j].Deadline)
		for cursor < len(fixtures) && dayOf(fixtures[cursor].Date).Before(lower) {
			cursor++
		}

		hasUpper := j+1 < end
		var upper time.Time
		if hasUpper {
			upper = dayOf(tours[j+1].Deadline)
		}

		for cursor < len(fixtures) {
			day := dayOf(fixtures[cursor].Date)
			if hasUpper && !day.Before(upper) {
				break
			}
			out = append(out, AlignedFixture{
				HomeTeam: fixtures[cursor].HomeTeam,
				AwayTeam: fixtures[cursor].AwayTeam,
				Date:     fixtures[cursor].Date,
				Tour:     tours[j].Number,
			})
			cursor++
		}
	}

	return out
}

func dayOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
