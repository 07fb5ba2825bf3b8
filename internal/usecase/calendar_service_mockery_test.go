package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/avolkov/tourcal/internal/domain/league"
	"github.com/avolkov/tourcal/internal/domain/snapshot"
	calendarmock "github.com/avolkov/tourcal/internal/mocks/domain/calendar"
	snapshotmock "github.com/avolkov/tourcal/internal/mocks/domain/snapshot"
	tourmock "github.com/avolkov/tourcal/internal/mocks/domain/tour"
	"github.com/avolkov/tourcal/internal/platform/logging"
)

func TestCalendarService_RebuildLeague_TourSourceDownSkipsPublishUsingMockery(t *testing.T) {
	t.Parallel()

	store := snapshotmock.NewStore(t)
	tourSource := tourmock.NewSource(t)
	calendarRepo := calendarmock.NewRepository(t)

	service := NewCalendarService(store, tourSource, calendarRepo, logging.NewNop(), CalendarServiceConfig{MaxTourCount: 2})

	store.
		On("Query", mock.Anything, "epl", "2026", snapshot.KindSchedule, (*time.Time)(nil)).
		Return(nil, nil).
		Once()
	store.
		On("Query", mock.Anything, "epl", "2026", snapshot.KindTable, (*time.Time)(nil)).
		Return(nil, nil).
		Once()
	tourSource.
		On("FetchTours", mock.Anything, "epl").
		Return(nil, errors.New("feed unavailable")).
		Once()

	published, err := service.RebuildLeague(context.Background(), league.League{ID: "epl", Name: "Premier League", Season: "2026"})
	if err != nil {
		t.Fatalf("rebuild league: %v", err)
	}
	if published != 0 {
		t.Fatalf("expected no published entries, got %d", published)
	}
	calendarRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
}
