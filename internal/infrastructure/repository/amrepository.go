package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"nmqueue/internal/domain/process"
	"nmqueue/internal/infrastructure/persistence/mappers"
	"nmqueue/internal/infrastructure/persistence/models"
	db "nmqueue/internal/shared/db"
)

type AMRepository struct {
	db     *gorm.DB
	mapper mappers.AMMapper
}

func NewAMRepository(gdb *gorm.DB) *AMRepository {
	return &AMRepository{
		db:     gdb,
		mapper: mappers.NewAMMapper(),
	}
}

func (r *AMRepository) Create(ctx context.Context, am *process.AM) error {
	model := r.mapper.ToModel(am)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create AM: %w", err)
	}

	return am.SetID(model.ID)
}

func (r *AMRepository) GetByID(ctx context.Context, id uint) (*process.AM, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *AMRepository) GetByPersonID(ctx context.Context, personID uint) (*process.AM, error) {
	return r.getOne(ctx, "person_id = ?", personID)
}

func (r *AMRepository) getOne(ctx context.Context, query string, arg any) (*process.AM, error) {
	var model models.AMModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where(query, arg).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find AM: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *AMRepository) ListActive(ctx context.Context) ([]*process.AM, error) {
	return r.listWhere(ctx, "is_am = ?", true)
}

func (r *AMRepository) List(ctx context.Context) ([]*process.AM, error) {
	return r.listWhere(ctx, "1 = 1")
}

func (r *AMRepository) listWhere(ctx context.Context, query string, args ...any) ([]*process.AM, error) {
	var amModels []models.AMModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where(query, args...).
		Order("id ASC").
		Find(&amModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list AMs: %w", err)
	}

	ams := make([]*process.AM, len(amModels))
	for i := range amModels {
		am, err := r.mapper.ToDomain(&amModels[i])
		if err != nil {
			return nil, err
		}
		ams[i] = am
	}

	return ams, nil
}

func (r *AMRepository) Update(ctx context.Context, am *process.AM) error {
	model := r.mapper.ToModel(am)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.AMModel{}).
		Where("id = ?", model.ID).
		Select("slots", "is_am", "is_fd", "is_dam", "is_am_ctte", "password_hash").
		Updates(model)

	if result.Error != nil {
		return fmt.Errorf("failed to update AM: %w", result.Error)
	}

	return nil
}
