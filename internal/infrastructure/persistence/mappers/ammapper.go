package mappers

import (
	"fmt"
	"time"

	"nmqueue/internal/domain/process"
	"nmqueue/internal/infrastructure/persistence/models"
)

// AMMapper handles the conversion between AM domain entities and persistence models.
type AMMapper interface {
	ToModel(am *process.AM) *models.AMModel
	ToDomain(model *models.AMModel) (*process.AM, error)
}

// AMMapperImpl is the concrete implementation of AMMapper.
type AMMapperImpl struct{}

// NewAMMapper creates a new AMMapper.
func NewAMMapper() AMMapper {
	return &AMMapperImpl{}
}

func (m *AMMapperImpl) ToModel(am *process.AM) *models.AMModel {
	return &models.AMModel{
		ID:           am.ID(),
		PersonID:     am.PersonID(),
		Slots:        am.Slots(),
		IsAM:         am.IsAM(),
		IsFD:         am.IsFD(),
		IsDAM:        am.IsDAM(),
		IsAMCtte:     am.IsAMCtte(),
		PasswordHash: am.PasswordHash(),
		CreatedAt:    am.CreatedAt().UnixMilli(),
	}
}

func (m *AMMapperImpl) ToDomain(model *models.AMModel) (*process.AM, error) {
	am, err := process.ReconstructAM(
		model.ID,
		model.PersonID,
		model.Slots,
		model.IsAM,
		model.IsFD,
		model.IsDAM,
		model.IsAMCtte,
		time.UnixMilli(model.CreatedAt).UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("reconstruct AM %d: %w", model.ID, err)
	}
	am.SetPasswordHash(model.PasswordHash)
	return am, nil
}
