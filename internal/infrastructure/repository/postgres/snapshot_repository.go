package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/avolkov/tourcal/internal/domain/snapshot"
	qb "github.com/avolkov/tourcal/internal/platform/querybuilder"
)

const naturalKeySeparator = "|"

// SnapshotRepository persists the append-only scrape log. Rows are only
// ever inserted; there is no update or delete path.
type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Append(ctx context.Context, record snapshot.Record) error {
	model, err := snapshotInsertFromDomain(record)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("snapshot_records", model, "")
	if err != nil {
		return fmt.Errorf("build insert snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert snapshot record: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) AppendBatch(ctx context.Context, records []snapshot.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx append snapshots: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for idx, record := range records {
		model, err := snapshotInsertFromDomain(record)
		if err != nil {
			return fmt.Errorf("record %d: %w", idx, err)
		}
		query, args, err := qb.InsertModel("snapshot_records", model, "")
		if err != nil {
			return fmt.Errorf("build insert snapshot query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert snapshot record %d: %w", idx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append snapshots tx: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) Query(ctx context.Context, leagueID, season string, kind snapshot.Kind, since *time.Time) ([]snapshot.Record, error) {
	conditions := []qb.Condition{
		qb.Eq("league_public_id", leagueID),
		qb.Eq("season", season),
		qb.Eq("kind", string(kind)),
	}
	if since != nil {
		conditions = append(conditions, qb.Gte("captured_at", since.UTC()))
	}

	query, args, err := qb.Select("*").From("snapshot_records").
		Where(conditions...).
		OrderBy("captured_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query snapshots: %w", err)
	}

	var rows []snapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query snapshot records: %w", err)
	}

	out := make([]snapshot.Record, 0, len(rows))
	for _, row := range rows {
		var payload snapshotPayloadModel
		if err := jsoniter.UnmarshalFromString(row.Payload, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot payload id=%d: %w", row.ID, err)
		}
		out = append(out, snapshot.Record{
			League:     row.LeagueID,
			Season:     row.Season,
			Kind:       snapshot.Kind(row.Kind),
			KeyParts:   strings.Split(row.NaturalKey, naturalKeySeparator),
			CapturedAt: row.CapturedAt.UTC(),
			Payload:    payload.toDomain(),
		})
	}
	return out, nil
}

func snapshotInsertFromDomain(record snapshot.Record) (snapshotInsertModel, error) {
	payloadJSON, err := jsoniter.MarshalToString(payloadModelFromDomain(record.Payload))
	if err != nil {
		return snapshotInsertModel{}, fmt.Errorf("marshal snapshot payload: %w", err)
	}
	return snapshotInsertModel{
		LeagueID:   record.League,
		Season:     record.Season,
		Kind:       string(record.Kind),
		NaturalKey: strings.Join(record.KeyParts, naturalKeySeparator),
		CapturedAt: record.CapturedAt.UTC(),
		Payload:    payloadJSON,
	}, nil
}
