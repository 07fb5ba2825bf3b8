package postgres

import "time"

type calendarEntryTableModel struct {
	ID              int64      `db:"id"`
	LeagueID        string     `db:"league_public_id"`
	HomeTeam        string     `db:"home_team"`
	AwayTeam        string     `db:"away_team"`
	Tour            int        `db:"tour"`
	HomePointsScore *int       `db:"home_points_score"`
	AwayPointsScore *int       `db:"away_points_score"`
	HomeXGScore     *float64   `db:"home_xg_score"`
	AwayXGScore     *float64   `db:"away_xg_score"`
	CreatedAt       time.Time  `db:"created_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type calendarEntryInsertModel struct {
	LeagueID        string   `db:"league_public_id"`
	HomeTeam        string   `db:"home_team"`
	AwayTeam        string   `db:"away_team"`
	Tour            int      `db:"tour"`
	HomePointsScore *int     `db:"home_points_score"`
	AwayPointsScore *int     `db:"away_points_score"`
	HomeXGScore     *float64 `db:"home_xg_score"`
	AwayXGScore     *float64 `db:"away_xg_score"`
}
