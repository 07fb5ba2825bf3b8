package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/avolkov/tourcal/internal/domain/snapshot"
)

func record(league string, kind snapshot.Kind, capturedAt time.Time, keyParts ...string) snapshot.Record {
	return snapshot.Record{
		League:     league,
		Season:     "2026",
		Kind:       kind,
		KeyParts:   keyParts,
		CapturedAt: capturedAt,
	}
}

func TestSnapshotRepository_QueryFilters(t *testing.T) {
	t.Parallel()

	repo := NewSnapshotRepository()
	ctx := context.Background()
	at := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	err := repo.AppendBatch(ctx, []snapshot.Record{
		record("epl", snapshot.KindSchedule, at, "ARS", "CHE"),
		record("epl", snapshot.KindTable, at, "ARS"),
		record("laliga", snapshot.KindSchedule, at, "RMA", "BAR"),
		record("epl", snapshot.KindSchedule, at.Add(-48*time.Hour), "LIV", "MUN"),
	})
	if err != nil {
		t.Fatalf("AppendBatch error: %v", err)
	}

	got, err := repo.Query(ctx, "epl", "2026", snapshot.KindSchedule, nil)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 epl schedule records, got=%d", len(got))
	}

	since := at.Add(-time.Hour)
	got, err = repo.Query(ctx, "epl", "2026", snapshot.KindSchedule, &since)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(got) != 1 || got[0].KeyParts[0] != "ARS" {
		t.Fatalf("since filter failed, got %+v", got)
	}
}

func TestSnapshotRepository_AppendIsDuplicateTolerant(t *testing.T) {
	t.Parallel()

	repo := NewSnapshotRepository()
	ctx := context.Background()
	at := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	same := record("epl", snapshot.KindTable, at, "ARS")
	if err := repo.Append(ctx, same); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if err := repo.Append(ctx, same); err != nil {
		t.Fatalf("duplicate Append must not fail: %v", err)
	}

	got, _ := repo.Query(ctx, "epl", "2026", snapshot.KindTable, nil)
	if len(got) != 2 {
		t.Fatalf("the log must keep both observations, got=%d", len(got))
	}
}

func TestSnapshotRepository_ConcurrentAppends(t *testing.T) {
	t.Parallel()

	repo := NewSnapshotRepository()
	ctx := context.Background()
	at := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = repo.Append(ctx, record("epl", snapshot.KindOdds, at, "ARS", "CHE"))
			}
		}()
	}
	wg.Wait()

	got, err := repo.Query(ctx, "epl", "2026", snapshot.KindOdds, nil)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(got) != 400 {
		t.Fatalf("expected 400 records from concurrent appends, got=%d", len(got))
	}
}
