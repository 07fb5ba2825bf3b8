package usecase

import (
	"time"

	"github.com/avolkov/tourcal/internal/domain/snapshot"
)

// ResolveOptions tunes how snapshot rows are collapsed into current values.
type ResolveOptions struct {
	// BatchWindow bounds how far behind the newest capture a row may be and
	// still count as part of the newest ingestion batch. Zero means "same
	// UTC calendar day as the newest capture".
	BatchWindow time.Duration
}

// ResolveLatest collapses snapshot rows sharing a natural key into one
// current row per key.
//
// Only rows belonging to the newest ingestion batch participate: older
// batches are discarded wholesale, so a key absent from the newest batch
// resolves to nothing rather than to a stale value. Within the batch the
// row with the greatest capture time wins; capture-time ties fall to the
// most recently appended row. The result depends only on the input slice,
// so resolving the same snapshot set twice yields identical output.
func ResolveLatest(records []snapshot.Record, opts ResolveOptions) map[string]snapshot.Record {
	out := make(map[string]snapshot.Record, len(records))
	if len(records) == 0 {
		return out
	}

	var newest time.Time
	for _, record := range records {
		if record.CapturedAt.After(newest) {
			newest = record.CapturedAt
		}
	}

	for _, record := range records {
		if !sameBatch(record.CapturedAt, newest, opts.BatchWindow) {
			continue
		}
		key := record.Key()
		current, seen := out[key]
		// Records arrive in insertion order, so >= lets a later append win ties.
		if !seen || !record.CapturedAt.Before(current.CapturedAt) {
			out[key] = record
		}
	}

	return out
}

func sameBatch(capturedAt, newest time.Time, window time.Duration) bool {
	if window > 0 {
		return !capturedAt.Before(newest.Add(-window))
	}

	y1, m1, d1 := newest.UTC().Date()
	y2, m2, d2 := capturedAt.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
