package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avolkov/tourcal/internal/domain/league"
	"github.com/avolkov/tourcal/internal/domain/tour"
	"github.com/avolkov/tourcal/internal/platform/logging"
	"github.com/avolkov/tourcal/internal/platform/resilience"
	"github.com/avolkov/tourcal/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          false,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			ProbeLimit:       1,
		},
	})
	return client, server
}

func TestClient_FetchSchedule(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leagues/premier-league/fixtures" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"home_team":" ARS ","away_team":"CHE","date":"2026-03-14"},
			{"home_team":"LIV","away_team":"MUN","date":"2026-03-01","home_goals":2,"away_goals":0},
			{"home_team":"NEW","away_team":"BHA"}
		]}`))
	})

	lg := league.League{ID: "epl", Name: "Premier League", Season: "2026", FeedCode: "premier-league"}
	rows, err := client.FetchSchedule(context.Background(), lg)
	if err != nil {
		t.Fatalf("FetchSchedule error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("the dateless fixture must be dropped, got=%d rows", len(rows))
	}
	if rows[0].HomeTeam != "ARS" {
		t.Fatalf("team names must be trimmed, got %q", rows[0].HomeTeam)
	}
	if rows[1].HomeGoals == nil || *rows[1].HomeGoals != 2 {
		t.Fatalf("goal counts must survive decoding, got %+v", rows[1])
	}
}

func TestClient_FetchTours(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"number":29,"deadline":"2026-03-13T18:30:00Z","status":"opened"},
			{"number":30,"deadline":"not-a-date","status":"NOT_STARTED"},
			{"number":31,"deadline":"2026-03-27T18:30:00Z","status":""}
		]}`))
	})

	tours, err := client.FetchTours(context.Background(), "epl")
	if err != nil {
		t.Fatalf("FetchTours error: %v", err)
	}
	if len(tours) != 2 {
		t.Fatalf("the unparsable deadline must be skipped, got=%d tours", len(tours))
	}
	if tours[0].Status != tour.StatusOpened {
		t.Fatalf("status must be normalized, got %q", tours[0].Status)
	}
	if tours[1].Status != tour.StatusNotStarted {
		t.Fatalf("blank status must default to NOT_STARTED, got %q", tours[1].Status)
	}
}

func TestClient_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	client.maxRetries = 3

	_, err := client.FetchTable(context.Background(), league.League{ID: "epl", Season: "2026"})
	if err == nil {
		t.Fatal("expected an error for status 404")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("non-retryable status must not be retried, got=%d calls", got)
	}
}

func TestClient_CircuitOpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			ProbeLimit:       1,
		},
	})

	if _, err := client.FetchOdds(context.Background(), league.League{ID: "epl", Season: "2026"}); err == nil {
		t.Fatal("expected a transient failure")
	}
	served := calls.Load()

	_, err := client.FetchOdds(context.Background(), league.League{ID: "epl", Season: "2026"})
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected the open circuit to short-circuit, got %v", err)
	}
	if calls.Load() != served {
		t.Fatal("an open circuit must not reach the feed")
	}
}
