package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/avolkov/tourcal/internal/domain/calendar"
)

func generation(leagueID string, tour, size int) []calendar.Entry {
	out := make([]calendar.Entry, 0, size)
	for i := 0; i < size; i++ {
		out = append(out, calendar.Entry{
			LeagueID: leagueID,
			HomeTeam: fmt.Sprintf("H%d", i),
			AwayTeam: fmt.Sprintf("A%d", i),
			Tour:     tour,
		})
	}
	return out
}

func TestCalendarRepository_ReplaceAndList(t *testing.T) {
	t.Parallel()

	repo := NewCalendarRepository()
	ctx := context.Background()

	if err := repo.Replace(ctx, "epl", generation("epl", 29, 3)); err != nil {
		t.Fatalf("Replace error: %v", err)
	}

	got, err := repo.ListByLeague(ctx, "epl")
	if err != nil {
		t.Fatalf("ListByLeague error: %v", err)
	}
	if len(got) != 3 || got[0].Tour != 29 {
		t.Fatalf("unexpected entries: %+v", got)
	}

	other, err := repo.ListByLeague(ctx, "laliga")
	if err != nil {
		t.Fatalf("ListByLeague error: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no entries for an unpublished league, got %+v", other)
	}
}

func TestCalendarRepository_EmptyReplaceKeepsGeneration(t *testing.T) {
	t.Parallel()

	repo := NewCalendarRepository()
	ctx := context.Background()

	if err := repo.Replace(ctx, "epl", generation("epl", 29, 2)); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	if err := repo.Replace(ctx, "epl", nil); err != nil {
		t.Fatalf("empty Replace error: %v", err)
	}

	got, _ := repo.ListByLeague(ctx, "epl")
	if len(got) != 2 {
		t.Fatalf("empty replace must keep the previous generation, got %+v", got)
	}
}

func TestCalendarRepository_ReplaceIsAtomic(t *testing.T) {
	t.Parallel()

	repo := NewCalendarRepository()
	ctx := context.Background()

	if err := repo.Replace(ctx, "epl", generation("epl", 29, 5)); err != nil {
		t.Fatalf("Replace error: %v", err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}

			got, err := repo.ListByLeague(ctx, "epl")
			if err != nil {
				t.Errorf("ListByLeague error: %v", err)
				return
			}
			if len(got) != 5 {
				t.Errorf("reader observed a partial generation: %d entries", len(got))
				return
			}
			tour := got[0].Tour
			for _, entry := range got {
				if entry.Tour != tour {
					t.Errorf("reader observed mixed generations: %d and %d", tour, entry.Tour)
					return
				}
			}
		}
	}()

	for i := 0; i < 200; i++ {
		nextTour := 30 + i
		if err := repo.Replace(ctx, "epl", generation("epl", nextTour, 5)); err != nil {
			t.Fatalf("Replace error: %v", err)
		}
	}
	close(stop)
	wg.Wait()
}
