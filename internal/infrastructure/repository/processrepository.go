package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"nmqueue/internal/domain/process"
	"nmqueue/internal/infrastructure/persistence/mappers"
	"nmqueue/internal/infrastructure/persistence/models"
	db "nmqueue/internal/shared/db"
	"nmqueue/internal/shared/logger"
)

type ProcessRepository struct {
	db     *gorm.DB
	mapper mappers.ProcessMapper
}

func NewProcessRepository(gdb *gorm.DB) *ProcessRepository {
	return &ProcessRepository{
		db:     gdb,
		mapper: mappers.NewProcessMapper(),
	}
}

func (r *ProcessRepository) Create(ctx context.Context, p *process.Process) error {
	model := r.mapper.ToModel(p)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create process: %w", err)
	}

	if err := p.SetID(model.ID); err != nil {
		return err
	}

	return r.syncAdvocates(tx, model.ID, p.AdvocateIDs())
}

func (r *ProcessRepository) GetByID(ctx context.Context, id uint) (*process.Process, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *ProcessRepository) GetActiveByPersonID(ctx context.Context, personID uint) (*process.Process, error) {
	return r.getOne(ctx, "person_id = ? AND is_active = ?", personID, true)
}

func (r *ProcessRepository) getOne(ctx context.Context, query string, args ...any) (*process.Process, error) {
	var model models.ProcessModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where(query, args...).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find process: %w", err)
	}

	advocateIDs, err := r.loadAdvocates(tx, model.ID)
	if err != nil {
		return nil, err
	}

	return r.mapper.ToDomain(&model, advocateIDs)
}

func (r *ProcessRepository) ListByPersonID(ctx context.Context, personID uint) ([]*process.Process, error) {
	return r.listWhere(ctx, "person_id = ?", personID)
}

func (r *ProcessRepository) ListActive(ctx context.Context) ([]*process.Process, error) {
	return r.listWhere(ctx, "is_active = ?", true)
}

func (r *ProcessRepository) listWhere(ctx context.Context, query string, args ...any) ([]*process.Process, error) {
	var processModels []models.ProcessModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where(query, args...).Order("created_at DESC").Find(&processModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	processes := make([]*process.Process, 0, len(processModels))
	for i := range processModels {
		advocateIDs, err := r.loadAdvocates(tx, processModels[i].ID)
		if err != nil {
			return nil, err
		}
		p, err := r.mapper.ToDomain(&processModels[i], advocateIDs)
		if err != nil {
			// A stored progress outside the taxonomy must not fail the
			// whole scan.
			logger.Warn("skipping unmappable process row",
				"process_id", processModels[i].ID, "error", err)
			continue
		}
		processes = append(processes, p)
	}

	return processes, nil
}

func (r *ProcessRepository) CountActiveByManager(ctx context.Context, amID uint) (int64, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Model(&models.ProcessModel{}).
		Where("manager_id = ? AND is_active = ?", amID, true).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count manager processes: %w", err)
	}

	return count, nil
}

func (r *ProcessRepository) Update(ctx context.Context, p *process.Process) error {
	model := r.mapper.ToModel(p)
	tx := db.GetTxFromContext(ctx, r.db)

	// Select("*") so a dropped manager is written back as NULL.
	result := tx.
		Model(&models.ProcessModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return fmt.Errorf("failed to update process: %w", result.Error)
	}

	return r.syncAdvocates(tx, model.ID, p.AdvocateIDs())
}

func (r *ProcessRepository) loadAdvocates(tx *gorm.DB, processID uint) ([]uint, error) {
	var advocateModels []models.ProcessAdvocateModel
	if err := tx.
		Where("process_id = ?", processID).
		Order("id ASC").
		Find(&advocateModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load advocates: %w", err)
	}

	ids := make([]uint, len(advocateModels))
	for i, m := range advocateModels {
		ids[i] = m.PersonID
	}
	return ids, nil
}

// syncAdvocates inserts join rows missing from the table. Advocacy is never
// withdrawn, so existing rows are left alone.
func (r *ProcessRepository) syncAdvocates(tx *gorm.DB, processID uint, advocateIDs []uint) error {
	if len(advocateIDs) == 0 {
		return nil
	}

	existing, err := r.loadAdvocates(tx, processID)
	if err != nil {
		return err
	}
	known := make(map[uint]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	for _, personID := range advocateIDs {
		if known[personID] {
			continue
		}
		row := &models.ProcessAdvocateModel{ProcessID: processID, PersonID: personID}
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("failed to record advocate: %w", err)
		}
	}

	return nil
}
