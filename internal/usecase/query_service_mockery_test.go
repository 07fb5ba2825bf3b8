package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/avolkov/tourcal/internal/domain/calendar"
	"github.com/avolkov/tourcal/internal/domain/league"
	calendarmock "github.com/avolkov/tourcal/internal/mocks/domain/calendar"
)

func TestQueryService_GetCalendar_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	calendarRepo := calendarmock.NewRepository(t)

	leagues := []league.League{{ID: "epl", Name: "Premier League", Season: "2026"}}
	service := NewQueryService(leagues, calendarRepo)

	expected := []calendar.Entry{
		{LeagueID: "epl", HomeTeam: "ARS", AwayTeam: "CHE", Tour: 29},
		{LeagueID: "epl", HomeTeam: "LIV", AwayTeam: "MUN", Tour: 29},
	}

	calendarRepo.
		On("ListByLeague", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "epl").
		Return(expected, nil).
		Once()

	got, err := service.GetCalendar(ctx, "epl")
	if err != nil {
		t.Fatalf("get calendar: %v", err)
	}
	if len(got) != len(expected) {
		t.Fatalf("unexpected entry count: got=%d want=%d", len(got), len(expected))
	}
	if got[0].HomeTeam != expected[0].HomeTeam {
		t.Fatalf("unexpected home team: got=%s want=%s", got[0].HomeTeam, expected[0].HomeTeam)
	}
}

func TestQueryService_GetCalendar_RepositoryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	calendarRepo := calendarmock.NewRepository(t)

	leagues := []league.League{{ID: "epl", Name: "Premier League", Season: "2026"}}
	service := NewQueryService(leagues, calendarRepo)

	repoErr := errors.New("connection reset")
	calendarRepo.
		On("ListByLeague", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "epl").
		Return(nil, repoErr).
		Once()

	_, err := service.GetCalendar(context.Background(), "epl")
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}
