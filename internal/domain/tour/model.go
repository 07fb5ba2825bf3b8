package tour

import (
	"context"
	"strings"
	"time"
)

const (
	StatusOpened     = "OPENED"
	StatusNotStarted = "NOT_STARTED"
	StatusClosed     = "CLOSED"
)

// Descriptor is externally reported round metadata. Within a league,
// descriptors are ordered by Number and Deadline grows with Number; the
// source is imprecise, so consumers tolerate violations defensively.
type Descriptor struct {
	LeagueID string
	Number   int
	Deadline time.Time
	Status   string
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusNotStarted
	}
	return status
}

// IsActionable reports whether the tour can start a lookahead window.
func IsActionable(status string) bool {
	switch NormalizeStatus(status) {
	case StatusOpened, StatusNotStarted, "OPEN", "UPCOMING":
		return true
	default:
		return false
	}
}

// Source reports the freshest known round metadata for a league. It is not
// snapshotted; callers always see the source's current state.
type Source interface {
	FetchTours(ctx context.Context, leagueID string) ([]Descriptor, error)
}
