package calendar

// Entry is one published calendar row: a fixture bound to a tour with
// directional difficulty scores. Any score may be nil when the inputs
// needed to compute it were missing.
type Entry struct {
	LeagueID        string
	HomeTeam        string
	AwayTeam        string
	Tour            int
	HomePointsScore *int
	AwayPointsScore *int
	HomeXGScore     *float64
	AwayXGScore     *float64
}
