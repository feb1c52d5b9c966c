package mappers

import (
	"encoding/json"
	"fmt"
	"time"

	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/infrastructure/persistence/models"
)

// InconsistencyMapper handles the conversion between consistency records and persistence models.
type InconsistencyMapper interface {
	ToModel(record *consistency.Record) (*models.InconsistencyModel, error)
	ToDomain(model *models.InconsistencyModel) (*consistency.Record, error)
}

// InconsistencyMapperImpl is the concrete implementation of InconsistencyMapper.
type InconsistencyMapperImpl struct{}

// NewInconsistencyMapper creates a new InconsistencyMapper.
func NewInconsistencyMapper() InconsistencyMapper {
	return &InconsistencyMapperImpl{}
}

func (m *InconsistencyMapperImpl) ToModel(record *consistency.Record) (*models.InconsistencyModel, error) {
	info, err := json.Marshal(record.Info)
	if err != nil {
		return nil, fmt.Errorf("marshal inconsistency info: %w", err)
	}

	return &models.InconsistencyModel{
		Kind:        string(record.Kind),
		EntityKey:   record.EntityKey(),
		PersonID:    record.PersonID,
		ProcessID:   record.ProcessID,
		Fingerprint: record.Fingerprint,
		Info:        info,
		CreatedAt:   record.CreatedAt.UnixMilli(),
	}, nil
}

func (m *InconsistencyMapperImpl) ToDomain(model *models.InconsistencyModel) (*consistency.Record, error) {
	info := consistency.NewInfo()
	if len(model.Info) > 0 {
		if err := json.Unmarshal(model.Info, info); err != nil {
			return nil, fmt.Errorf("unmarshal inconsistency %d info: %w", model.ID, err)
		}
	}

	return &consistency.Record{
		Kind:        consistency.Kind(model.Kind),
		PersonID:    model.PersonID,
		ProcessID:   model.ProcessID,
		Fingerprint: model.Fingerprint,
		Info:        info,
		CreatedAt:   time.UnixMilli(model.CreatedAt).UTC(),
	}, nil
}
