package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/infrastructure/persistence/mappers"
	"nmqueue/internal/infrastructure/persistence/models"
	db "nmqueue/internal/shared/db"
)

type InconsistencyRepository struct {
	db     *gorm.DB
	mapper mappers.InconsistencyMapper
}

func NewInconsistencyRepository(gdb *gorm.DB) *InconsistencyRepository {
	return &InconsistencyRepository{
		db:     gdb,
		mapper: mappers.NewInconsistencyMapper(),
	}
}

func (r *InconsistencyRepository) Reset(ctx context.Context) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("1 = 1").Delete(&models.InconsistencyModel{}).Error; err != nil {
		return fmt.Errorf("failed to reset inconsistencies: %w", err)
	}
	return nil
}

// Upsert merges the record's info into the stored record with the same
// entity key, last merge winning per extra key.
func (r *InconsistencyRepository) Upsert(ctx context.Context, record *consistency.Record) error {
	tx := db.GetTxFromContext(ctx, r.db)

	var existing models.InconsistencyModel
	err := tx.
		Where("kind = ? AND entity_key = ?", string(record.Kind), record.EntityKey()).
		First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		model, merr := r.mapper.ToModel(record)
		if merr != nil {
			return merr
		}
		if cerr := tx.Create(model).Error; cerr != nil {
			return fmt.Errorf("failed to create inconsistency: %w", cerr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find inconsistency: %w", err)
	}

	stored, err := r.mapper.ToDomain(&existing)
	if err != nil {
		return err
	}
	stored.Info.Merge(record.Info)

	merged := &consistency.Record{
		Kind:        consistency.Kind(existing.Kind),
		PersonID:    existing.PersonID,
		ProcessID:   existing.ProcessID,
		Fingerprint: existing.Fingerprint,
		Info:        stored.Info,
		CreatedAt:   stored.CreatedAt,
	}
	model, err := r.mapper.ToModel(merged)
	if err != nil {
		return err
	}

	result := tx.
		Model(&models.InconsistencyModel{}).
		Where("id = ?", existing.ID).
		Select("info").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update inconsistency: %w", result.Error)
	}

	return nil
}

func (r *InconsistencyRepository) List(ctx context.Context, kind consistency.Kind) ([]*consistency.Record, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.InconsistencyModel{})

	if kind != "" {
		query = query.Where("kind = ?", string(kind))
	}

	var incModels []models.InconsistencyModel
	if err := query.Order("kind ASC, entity_key ASC").Find(&incModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list inconsistencies: %w", err)
	}

	records := make([]*consistency.Record, len(incModels))
	for i := range incModels {
		record, err := r.mapper.ToDomain(&incModels[i])
		if err != nil {
			return nil, err
		}
		records[i] = record
	}

	return records, nil
}

func (r *InconsistencyRepository) GetByEntity(ctx context.Context, kind consistency.Kind, entityKey string) (*consistency.Record, error) {
	var model models.InconsistencyModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("kind = ? AND entity_key = ?", string(kind), entityKey).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find inconsistency: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *InconsistencyRepository) DeleteByEntity(ctx context.Context, kind consistency.Kind, entityKey string) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.
		Where("kind = ? AND entity_key = ?", string(kind), entityKey).
		Delete(&models.InconsistencyModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete inconsistency: %w", result.Error)
	}
	return nil
}
