package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/krushiiq/apiserver/types"
	"go.uber.org/zap"
)

// RecordRepository appends advisory records to the audit log.
type RecordRepository interface {
	Create(ctx context.Context, record types.AdvisoryRecord) (types.AdvisoryRecord, error)
}

// EventPublisher announces persisted records to other systems.
type EventPublisher interface {
	PublishRecord(ctx context.Context, record types.AdvisoryRecord) error
}

// Recorder writes advisory records and publishes them as events.
type Recorder struct {
	repo   RecordRepository
	events EventPublisher
	logger *zap.Logger
}

// NewRecorder builds a Recorder. events may be nil.
func NewRecorder(repo RecordRepository, events EventPublisher, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, events: events, logger: logger}
}

// Record persists input and output under kind. Publishing is best effort.
func (r *Recorder) Record(ctx context.Context, kind types.AdvisoryKind, source types.AdvisorySource, input map[string]any, output any) (types.AdvisoryRecord, error) {
	out, err := toMap(output)
	if err != nil {
		return types.AdvisoryRecord{}, err
	}

	record, err := r.repo.Create(ctx, types.AdvisoryRecord{
		Kind:   kind,
		Source: source,
		Input:  input,
		Output: out,
	})
	if err != nil {
		return types.AdvisoryRecord{}, fmt.Errorf("store %s record: %w", kind, err)
	}

	if r.events != nil {
		if err := r.events.PublishRecord(ctx, record); err != nil {
			r.logger.Warn("publish advisory record failed",
				zap.String("record_id", record.ID),
				zap.String("kind", string(kind)),
				zap.Error(err))
		}
	}
	return record, nil
}

// toMap converts a response value into the generic form stored in records.
func toMap(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record output: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode record output: %w", err)
	}
	return out, nil
}
