package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/avolkov/tourcal/internal/domain/snapshot"
	"github.com/avolkov/tourcal/internal/platform/logging"
	"github.com/avolkov/tourcal/internal/usecase"
)

type Handler struct {
	queryService     *usecase.QueryService
	ingestionService *usecase.IngestionService
	pipelineService  *usecase.PipelineService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	queryService *usecase.QueryService,
	ingestionService *usecase.IngestionService,
	pipelineService *usecase.PipelineService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		queryService:     queryService,
		ingestionService: ingestionService,
		pipelineService:  pipelineService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type leagueDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Season string `json:"season"`
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.queryService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, lg := range leagues {
		items = append(items, leagueDTO{ID: lg.ID, Name: lg.Name, Season: lg.Season})
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": items})
}

type calendarEntryDTO struct {
	LeagueID        string   `json:"league_id"`
	HomeTeam        string   `json:"home_team"`
	AwayTeam        string   `json:"away_team"`
	Tour            int      `json:"tour"`
	HomePointsScore *int     `json:"home_points_score"`
	AwayPointsScore *int     `json:"away_points_score"`
	HomeXGScore     *float64 `json:"home_xg_score"`
	AwayXGScore     *float64 `json:"away_xg_score"`
}

func (h *Handler) GetCalendarByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCalendarByLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	entries, err := h.queryService.GetCalendar(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get calendar failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]calendarEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, calendarEntryDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": items})
}

type ingestSnapshotRecord struct {
	League     string            `json:"league" validate:"required"`
	Season     string            `json:"season" validate:"required"`
	Kind       string            `json:"kind" validate:"required"`
	KeyParts   []string          `json:"key_parts" validate:"required,min=1,dive,required"`
	CapturedAt time.Time         `json:"captured_at" validate:"required"`
	Payload    snapshotPayloadDTO `json:"payload"`
}

type snapshotPayloadDTO struct {
	Date        *time.Time `json:"date,omitempty"`
	HomeGoals   *int       `json:"home_goals,omitempty"`
	AwayGoals   *int       `json:"away_goals,omitempty"`
	Points      *int       `json:"points,omitempty"`
	Position    *int       `json:"position,omitempty"`
	Played      *int       `json:"played,omitempty"`
	XGFor       *float64   `json:"xg_for,omitempty"`
	XGAgainst   *float64   `json:"xg_against,omitempty"`
	HomeWinOdds *float64   `json:"home_win_odds,omitempty"`
	DrawOdds    *float64   `json:"draw_odds,omitempty"`
	AwayWinOdds *float64   `json:"away_win_odds,omitempty"`
}

type ingestSnapshotsRequest struct {
	Records []ingestSnapshotRecord `json:"records" validate:"required,min=1,dive"`
}

func (h *Handler) IngestSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestSnapshots")
	defer span.End()

	var req ingestSnapshotsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	records := make([]snapshot.Record, 0, len(req.Records))
	for _, item := range req.Records {
		records = append(records, snapshot.Record{
			League:     item.League,
			Season:     item.Season,
			Kind:       snapshot.Kind(item.Kind),
			KeyParts:   item.KeyParts,
			CapturedAt: item.CapturedAt,
			Payload: snapshot.Payload{
				Date:        item.Payload.Date,
				HomeGoals:   item.Payload.HomeGoals,
				AwayGoals:   item.Payload.AwayGoals,
				Points:      item.Payload.Points,
				Position:    item.Payload.Position,
				Played:      item.Payload.Played,
				XGFor:       item.Payload.XGFor,
				XGAgainst:   item.Payload.XGAgainst,
				HomeWinOdds: item.Payload.HomeWinOdds,
				DrawOdds:    item.Payload.DrawOdds,
				AwayWinOdds: item.Payload.AwayWinOdds,
			},
		})
	}

	appended, err := h.ingestionService.AppendRecords(ctx, records)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest snapshots failed", "records", len(records), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, map[string]int{"appended": appended})
}

func (h *Handler) RunRebuildJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRebuildJob")
	defer span.End()

	if h.pipelineService == nil {
		writeError(ctx, w, fmt.Errorf("%w: pipeline is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	report, err := h.pipelineService.RunAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "rebuild job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}
