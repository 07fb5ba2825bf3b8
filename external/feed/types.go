package feed

// Wire types for the football feed API. Every optional attribute is a
// pointer so "not reported" survives decoding.

type fixtureItem struct {
	HomeTeam  string  `json:"home_team"`
	AwayTeam  string  `json:"away_team"`
	Date      *string `json:"date"`
	HomeGoals *int    `json:"home_goals"`
	AwayGoals *int    `json:"away_goals"`
}

type fixturesEnvelope struct {
	Data []fixtureItem `json:"data"`
}

type tableItem struct {
	Team      string   `json:"team"`
	Points    *int     `json:"points"`
	Position  *int     `json:"position"`
	Played    *int     `json:"played"`
	XGFor     *float64 `json:"xg_for"`
	XGAgainst *float64 `json:"xg_against"`
}

type tableEnvelope struct {
	Data []tableItem `json:"data"`
}

type oddsItem struct {
	HomeTeam    string   `json:"home_team"`
	AwayTeam    string   `json:"away_team"`
	Date        *string  `json:"date"`
	HomeWinOdds *float64 `json:"home_win"`
	DrawOdds    *float64 `json:"draw"`
	AwayWinOdds *float64 `json:"away_win"`
}

type oddsEnvelope struct {
	Data []oddsItem `json:"data"`
}

type tourItem struct {
	Number   int    `json:"number"`
	Deadline string `json:"deadline"`
	Status   string `json:"status"`
}

type toursEnvelope struct {
	Data []tourItem `json:"data"`
}
