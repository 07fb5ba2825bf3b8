package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/avolkov/tourcal/internal/domain/calendar"
	"github.com/avolkov/tourcal/internal/domain/league"
)

// QueryService serves the published side of the pipeline: configured
// leagues and their current calendar generation. It never touches raw
// snapshots.
type QueryService struct {
	leagues      []league.League
	calendarRepo calendar.Repository
}

func NewQueryService(leagues []league.League, calendarRepo calendar.Repository) *QueryService {
	return &QueryService{leagues: leagues, calendarRepo: calendarRepo}
}

func (s *QueryService) ListLeagues(ctx context.Context) ([]league.League, error) {
	_, span := startUsecaseSpan(ctx, "usecase.QueryService.ListLeagues")
	defer span.End()

	out := make([]league.League, len(s.leagues))
	copy(out, s.leagues)
	return out, nil
}

func (s *QueryService) LeagueByID(id string) (league.League, bool) {
	for _, lg := range s.leagues {
		if lg.ID == id {
			return lg, true
		}
	}
	return league.League{}, false
}

// GetCalendar returns the currently published calendar for a configured
// league. An unknown league is ErrNotFound; a configured league with no
// published generation yet returns an empty list.
func (s *QueryService) GetCalendar(ctx context.Context, leagueID string) ([]calendar.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetCalendar")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if _, ok := s.LeagueByID(leagueID); !ok {
		return nil, fmt.Errorf("%w: league %s is not configured", ErrNotFound, leagueID)
	}

	entries, err := s.calendarRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list calendar league=%s: %w", leagueID, err)
	}
	return entries, nil
}
