package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/avolkov/tourcal/internal/domain/calendar"
	"github.com/avolkov/tourcal/internal/domain/league"
	"github.com/avolkov/tourcal/internal/infrastructure/repository/memory"
	"github.com/avolkov/tourcal/internal/platform/logging"
	"github.com/avolkov/tourcal/internal/usecase"
)

const testJobToken = "job-token"

func testRouter(t *testing.T) (http.Handler, *memory.SnapshotRepository, *memory.CalendarRepository) {
	t.Helper()

	snapshots := memory.NewSnapshotRepository()
	calendars := memory.NewCalendarRepository()
	leagues := []league.League{{ID: "epl", Name: "Premier League", Season: "2026"}}

	handler := NewHandler(
		usecase.NewQueryService(leagues, calendars),
		usecase.NewIngestionService(snapshots),
		nil,
		logging.NewNop(),
	)
	router := NewRouter(handler, logging.NewNop(), []string{"*"}, testJobToken)
	return router, snapshots, calendars
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response envelope: %v", err)
	}
	return envelope
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router, _, _ := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.APIVersion != googleAPIVersion || envelope.Error != nil {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestListLeagues(t *testing.T) {
	t.Parallel()

	router, _, _ := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Premier League") {
		t.Fatalf("response must list the configured league, body=%s", rec.Body.String())
	}
}

func TestGetCalendarByLeague(t *testing.T) {
	t.Parallel()

	router, _, calendars := testRouter(t)
	err := calendars.Replace(context.Background(), "epl", []calendar.Entry{
		{LeagueID: "epl", HomeTeam: "ARS", AwayTeam: "CHE", Tour: 29},
	})
	if err != nil {
		t.Fatalf("seed calendar: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues/epl/calendar", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"home_team":"ARS"`) {
		t.Fatalf("response must carry the published entry, body=%s", rec.Body.String())
	}
	// Null scores serialize as explicit nulls, not omitted fields.
	if !strings.Contains(rec.Body.String(), `"home_points_score":null`) {
		t.Fatalf("missing scores must serialize as null, body=%s", rec.Body.String())
	}
}

func TestGetCalendarByLeague_UnknownLeague(t *testing.T) {
	t.Parallel()

	router, _, _ := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues/serie-a/calendar", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Status != "NOT_FOUND" {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
}

func TestIngestSnapshots(t *testing.T) {
	t.Parallel()

	router, snapshots, _ := testRouter(t)

	body := `{"records":[{"league":"epl","season":"2026","kind":"schedule","key_parts":["ARS","CHE"],"captured_at":"2026-03-10T08:00:00Z","payload":{"date":"2026-03-14T00:00:00Z"}}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/ingestion/snapshots", strings.NewReader(body))
	req.Header.Set("X-Internal-Job-Token", testJobToken)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	stored, err := snapshots.Query(context.Background(), "epl", "2026", "schedule", nil)
	if err != nil {
		t.Fatalf("query stored snapshots: %v", err)
	}
	if len(stored) != 1 || stored[0].KeyParts[0] != "ARS" {
		t.Fatalf("unexpected stored records: %+v", stored)
	}
}

func TestIngestSnapshots_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	router, _, _ := testRouter(t)

	body := `{"records":[],"surprise":true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/ingestion/snapshots", strings.NewReader(body))
	req.Header.Set("X-Internal-Job-Token", testJobToken)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestInternalRoutes_RequireToken(t *testing.T) {
	t.Parallel()

	router, _, _ := testRouter(t)

	for _, path := range []string{"/v1/internal/ingestion/snapshots", "/v1/internal/jobs/rebuild"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req.Header.Set("X-Internal-Job-Token", "wrong")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("path %s: unexpected status got=%d want=%d", path, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestCORS_PreflightAllowedOrigin(t *testing.T) {
	t.Parallel()

	router, _, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/leagues", nil)
	req.Header.Set("Origin", "https://example.com")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected preflight status: got=%d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("unexpected allow origin header: %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
