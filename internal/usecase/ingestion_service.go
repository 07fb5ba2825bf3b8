package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/avolkov/tourcal/internal/domain/snapshot"
)

// IngestionService is the write path into the snapshot store. It validates
// records synchronously and appends them; duplicates are always accepted.
type IngestionService struct {
	store snapshot.Store
}

func NewIngestionService(store snapshot.Store) *IngestionService {
	return &IngestionService{store: store}
}

// AppendRecords validates and appends scraped records. The whole batch is
// rejected when any record is malformed, so scraper adapters can retry it
// wholesale.
func (s *IngestionService) AppendRecords(ctx context.Context, records []snapshot.Record) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.AppendRecords")
	defer span.End()

	if len(records) == 0 {
		return 0, nil
	}

	for idx := range records {
		records[idx].League = strings.TrimSpace(records[idx].League)
		records[idx].Season = strings.TrimSpace(records[idx].Season)
		records[idx].Kind = snapshot.NormalizeKind(string(records[idx].Kind))
		for p := range records[idx].KeyParts {
			records[idx].KeyParts[p] = strings.TrimSpace(records[idx].KeyParts[p])
		}
		if err := validateRecord(records[idx]); err != nil {
			return 0, fmt.Errorf("%w: record %d: %v", ErrInvalidInput, idx, err)
		}
	}

	if err := s.store.AppendBatch(ctx, records); err != nil {
		return 0, fmt.Errorf("append snapshot batch: %w", err)
	}
	return len(records), nil
}

func validateRecord(record snapshot.Record) error {
	if record.League == "" {
		return fmt.Errorf("league is required")
	}
	if record.Season == "" {
		return fmt.Errorf("season is required")
	}
	if !snapshot.IsKnownKind(record.Kind) {
		return fmt.Errorf("unknown kind %q", record.Kind)
	}
	if len(record.KeyParts) == 0 {
		return fmt.Errorf("natural key is required")
	}
	for _, part := range record.KeyParts {
		if part == "" {
			return fmt.Errorf("natural key parts cannot be blank")
		}
	}
	if record.CapturedAt.IsZero() {
		return fmt.Errorf("captured_at is required")
	}
	return nil
}
