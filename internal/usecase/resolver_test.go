package usecase

import (
	"reflect"
	"testing"
	"time"

	"github.com/avolkov/tourcal/internal/domain/snapshot"
)

func iptr(v int) *int { return &v }

func fptr(v float64) *float64 { return &v }

func tptr(v time.Time) *time.Time { return &v }

func scheduleRecord(home, away string, capturedAt time.Time, date time.Time) snapshot.Record {
	return snapshot.Record{
		League:     "epl",
		Season:     "2026",
		Kind:       snapshot.KindSchedule,
		KeyParts:   []string{home, away},
		CapturedAt: capturedAt,
		Payload:    snapshot.Payload{Date: tptr(date)},
	}
}

func TestResolveLatest_LatestWins(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	older := scheduleRecord("ARS", "CHE", day.Add(8*time.Hour), day.AddDate(0, 0, 5))
	newer := scheduleRecord("ARS", "CHE", day.Add(9*time.Hour), day.AddDate(0, 0, 6))

	resolved := ResolveLatest([]snapshot.Record{older, newer}, ResolveOptions{})
	if len(resolved) != 1 {
		t.Fatalf("expected 1 resolved key, got=%d", len(resolved))
	}

	got, ok := resolved[newer.Key()]
	if !ok {
		t.Fatalf("resolved map missing key %q", newer.Key())
	}
	if !got.Payload.Date.Equal(day.AddDate(0, 0, 6)) {
		t.Fatalf("expected the newer payload to win, got date=%v", got.Payload.Date)
	}
}

func TestResolveLatest_BatchIsolation(t *testing.T) {
	t.Parallel()

	yesterday := time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)
	today := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	records := []snapshot.Record{
		scheduleRecord("ARS", "CHE", yesterday, yesterday),
		scheduleRecord("LIV", "MUN", yesterday, yesterday),
		// Today's batch carries only one of the two keys.
		scheduleRecord("ARS", "CHE", today, today),
	}

	resolved := ResolveLatest(records, ResolveOptions{})
	if len(resolved) != 1 {
		t.Fatalf("expected only the newest batch to resolve, got=%d keys", len(resolved))
	}
	if _, ok := resolved["schedule|LIV|MUN"]; ok {
		t.Fatal("key absent from the newest batch must not resolve to an older row")
	}
}

func TestResolveLatest_ExplicitWindow(t *testing.T) {
	t.Parallel()

	newest := time.Date(2026, time.March, 10, 23, 30, 0, 0, time.UTC)
	records := []snapshot.Record{
		// Previous UTC day but inside the 2h window: same batch.
		scheduleRecord("ARS", "CHE", newest.Add(-90*time.Minute), newest),
		scheduleRecord("LIV", "MUN", newest, newest),
	}

	resolved := ResolveLatest(records, ResolveOptions{BatchWindow: 2 * time.Hour})
	if len(resolved) != 2 {
		t.Fatalf("expected both records inside the window, got=%d", len(resolved))
	}

	resolved = ResolveLatest(records, ResolveOptions{})
	if len(resolved) != 1 {
		t.Fatalf("day-granularity batching should drop the prior-day record, got=%d", len(resolved))
	}
}

func TestResolveLatest_TieFallsToLatestAppend(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	first := scheduleRecord("ARS", "CHE", at, at.AddDate(0, 0, 1))
	second := scheduleRecord("ARS", "CHE", at, at.AddDate(0, 0, 2))

	resolved := ResolveLatest([]snapshot.Record{first, second}, ResolveOptions{})
	got := resolved[first.Key()]
	if !got.Payload.Date.Equal(at.AddDate(0, 0, 2)) {
		t.Fatalf("capture-time tie must fall to the most recently appended row, got date=%v", got.Payload.Date)
	}
}

func TestResolveLatest_Deterministic(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	records := []snapshot.Record{
		scheduleRecord("ARS", "CHE", day.Add(7*time.Hour), day.AddDate(0, 0, 3)),
		scheduleRecord("LIV", "MUN", day.Add(8*time.Hour), day.AddDate(0, 0, 4)),
		scheduleRecord("ARS", "CHE", day.Add(9*time.Hour), day.AddDate(0, 0, 5)),
	}

	first := ResolveLatest(records, ResolveOptions{})
	second := ResolveLatest(records, ResolveOptions{})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolution is not deterministic: %v vs %v", first, second)
	}
}

func TestResolveLatest_Empty(t *testing.T) {
	t.Parallel()

	if got := ResolveLatest(nil, ResolveOptions{}); len(got) != 0 {
		t.Fatalf("expected empty result for no records, got=%d", len(got))
	}
}
