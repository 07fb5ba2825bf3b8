package memory

import (
	"context"
	"sync"

	"github.com/avolkov/tourcal/internal/domain/calendar"
)

// CalendarRepository holds the published calendar in memory. Replace swaps
// a league's slice under the write lock, so a reader holding the read lock
// always sees one complete generation.
type CalendarRepository struct {
	mu       sync.RWMutex
	byLeague map[string][]calendar.Entry
}

func NewCalendarRepository() *CalendarRepository {
	return &CalendarRepository{byLeague: map[string][]calendar.Entry{}}
}

func (r *CalendarRepository) Replace(_ context.Context, leagueID string, entries []calendar.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	next := make([]calendar.Entry, len(entries))
	copy(next, entries)

	r.mu.Lock()
	r.byLeague[leagueID] = next
	r.mu.Unlock()
	return nil
}

func (r *CalendarRepository) ListByLeague(_ context.Context, leagueID string) ([]calendar.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	current := r.byLeague[leagueID]
	out := make([]calendar.Entry, len(current))
	copy(out, current)
	return out, nil
}
