package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/avolkov/tourcal/internal/domain/calendar"
	"github.com/avolkov/tourcal/internal/domain/league"
)

func TestQueryService_GetCalendar(t *testing.T) {
	t.Parallel()

	repo := &stubCalendarRepo{replaced: map[string][]calendar.Entry{
		"epl": {{LeagueID: "epl", HomeTeam: "ARS", AwayTeam: "CHE", Tour: 29}},
	}}
	svc := NewQueryService([]league.League{testLeague()}, repo)

	entries, err := svc.GetCalendar(context.Background(), "epl")
	if err != nil {
		t.Fatalf("GetCalendar error: %v", err)
	}
	if len(entries) != 1 || entries[0].HomeTeam != "ARS" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestQueryService_GetCalendar_UnknownLeague(t *testing.T) {
	t.Parallel()

	svc := NewQueryService([]league.League{testLeague()}, &stubCalendarRepo{})

	if _, err := svc.GetCalendar(context.Background(), "serie-a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetCalendar(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestQueryService_GetCalendar_NothingPublishedYet(t *testing.T) {
	t.Parallel()

	svc := NewQueryService([]league.League{testLeague()}, &stubCalendarRepo{})

	entries, err := svc.GetCalendar(context.Background(), "epl")
	if err != nil {
		t.Fatalf("GetCalendar error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected an empty calendar, got %+v", entries)
	}
}
