package store

import (
	"context"
	"time"

	"github.com/krushiiq/apiserver/types"
)

// AdvisoryRepository appends advisory records to the audit collections.
type AdvisoryRepository struct {
	gw Gateway
}

func NewAdvisoryRepository(gw Gateway) *AdvisoryRepository {
	return &AdvisoryRepository{gw: gw}
}

func (r *AdvisoryRepository) Create(ctx context.Context, record types.AdvisoryRecord) (types.AdvisoryRecord, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if record.Source == "" {
		record.Source = types.SourceHeuristic
	}
	record.ID = ""

	id, err := r.gw.InsertOne(ctx, AdvisoryCollection(record), record)
	if err != nil {
		return types.AdvisoryRecord{}, err
	}
	record.ID = id
	return record, nil
}

// AdvisoryCollection returns the collection a record is written to.
func AdvisoryCollection(record types.AdvisoryRecord) string {
	if record.Source == types.SourceAI {
		return CollectionAI
	}
	switch record.Kind {
	case types.AdvisoryCrop:
		return CollectionRecommendations
	case types.AdvisoryYield:
		return CollectionPredictions
	case types.AdvisoryPesticide:
		return CollectionPesticides
	case types.AdvisoryDisease:
		return CollectionDetections
	default:
		return CollectionRecommendations
	}
}
