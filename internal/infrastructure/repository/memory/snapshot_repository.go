package memory

import (
	"context"
	"sync"
	"time"

	"github.com/avolkov/tourcal/internal/domain/snapshot"
)

// SnapshotRepository is the in-memory append-only scrape log, used by
// tests and local runs without a database.
type SnapshotRepository struct {
	mu      sync.RWMutex
	records []snapshot.Record
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

func (r *SnapshotRepository) Append(_ context.Context, record snapshot.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, record)
	return nil
}

func (r *SnapshotRepository) AppendBatch(_ context.Context, records []snapshot.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, records...)
	return nil
}

func (r *SnapshotRepository) Query(_ context.Context, leagueID, season string, kind snapshot.Kind, since *time.Time) ([]snapshot.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]snapshot.Record, 0, len(r.records))
	for _, record := range r.records {
		if record.League != leagueID || record.Season != season || record.Kind != kind {
			continue
		}
		if since != nil && record.CapturedAt.Before(*since) {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}
