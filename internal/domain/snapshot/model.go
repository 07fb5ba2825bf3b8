package snapshot

import (
	"strings"
	"time"
)

// Kind identifies which scraper produced a record.
type Kind string

const (
	KindSchedule Kind = "schedule"
	KindTable    Kind = "table"
	KindOdds     Kind = "odds"
)

func NormalizeKind(value string) Kind {
	return Kind(strings.ToLower(strings.TrimSpace(value)))
}

func IsKnownKind(kind Kind) bool {
	switch kind {
	case KindSchedule, KindTable, KindOdds:
		return true
	default:
		return false
	}
}

// Record is one immutable scrape observation. Records are never updated in
// place; repeated scrapes of the same entity produce additional records
// sharing the same natural key.
type Record struct {
	League     string
	Season     string
	Kind       Kind
	KeyParts   []string
	CapturedAt time.Time
	Payload    Payload
}

// Key returns the natural key identifying what the record is about,
// independent of when it was observed.
func (r Record) Key() string {
	parts := make([]string, 0, len(r.KeyParts)+1)
	parts = append(parts, string(r.Kind))
	parts = append(parts, r.KeyParts...)
	return strings.Join(parts, "|")
}

// Payload carries scraped attributes. Sources are unreliable, so every
// field is optional; absence means the source did not report it.
type Payload struct {
	Date        *time.Time
	HomeGoals   *int
	AwayGoals   *int
	Points      *int
	Position    *int
	Played      *int
	XGFor       *float64
	XGAgainst   *float64
	HomeWinOdds *float64
	DrawOdds    *float64
	AwayWinOdds *float64
}
