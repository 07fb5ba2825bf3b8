package postgres

import (
	"time"

	"github.com/avolkov/tourcal/internal/domain/snapshot"
)

type snapshotTableModel struct {
	ID         int64     `db:"id"`
	LeagueID   string    `db:"league_public_id"`
	Season     string    `db:"season"`
	Kind       string    `db:"kind"`
	NaturalKey string    `db:"natural_key"`
	CapturedAt time.Time `db:"captured_at"`
	Payload    string    `db:"payload"`
	CreatedAt  time.Time `db:"created_at"`
}

type snapshotInsertModel struct {
	LeagueID   string    `db:"league_public_id"`
	Season     string    `db:"season"`
	Kind       string    `db:"kind"`
	NaturalKey string    `db:"natural_key"`
	CapturedAt time.Time `db:"captured_at"`
	Payload    string    `db:"payload"`
}

// snapshotPayloadModel is the JSON shape of a record payload in the
// `payload` column. Fields absent from the scrape stay absent from the
// stored document.
type snapshotPayloadModel struct {
	Date        *time.Time `json:"date,omitempty"`
	HomeGoals   *int       `json:"home_goals,omitempty"`
	AwayGoals   *int       `json:"away_goals,omitempty"`
	Points      *int       `json:"points,omitempty"`
	Position    *int       `json:"position,omitempty"`
	Played      *int       `json:"played,omitempty"`
	XGFor       *float64   `json:"xg_for,omitempty"`
	XGAgainst   *float64   `json:"xg_against,omitempty"`
	HomeWinOdds *float64   `json:"home_win_odds,omitempty"`
	DrawOdds    *float64   `json:"draw_odds,omitempty"`
	AwayWinOdds *float64   `json:"away_win_odds,omitempty"`
}

func payloadModelFromDomain(p snapshot.Payload) snapshotPayloadModel {
	return snapshotPayloadModel{
		Date:        p.Date,
		HomeGoals:   p.HomeGoals,
		AwayGoals:   p.AwayGoals,
		Points:      p.Points,
		Position:    p.Position,
		Played:      p.Played,
		XGFor:       p.XGFor,
		XGAgainst:   p.XGAgainst,
		HomeWinOdds: p.HomeWinOdds,
		DrawOdds:    p.DrawOdds,
		AwayWinOdds: p.AwayWinOdds,
	}
}

func (m snapshotPayloadModel) toDomain() snapshot.Payload {
	return snapshot.Payload{
		Date:        m.Date,
		HomeGoals:   m.HomeGoals,
		AwayGoals:   m.AwayGoals,
		Points:      m.Points,
		Position:    m.Position,
		Played:      m.Played,
		XGFor:       m.XGFor,
		XGAgainst:   m.XGAgainst,
		HomeWinOdds: m.HomeWinOdds,
		DrawOdds:    m.DrawOdds,
		AwayWinOdds: m.AwayWinOdds,
	}
}
