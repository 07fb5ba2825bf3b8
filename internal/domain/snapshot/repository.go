package snapshot

import (
	"context"
	"time"
)

// Store is the append-only snapshot log. Append never fails on duplicate
// natural keys and is safe for unsynchronized concurrent writers.
type Store interface {
	Append(ctx context.Context, record Record) error
	AppendBatch(ctx context.Context, records []Record) error
	Query(ctx context.Context, leagueID, season string, kind Kind, since *time.Time) ([]Record, error)
}
