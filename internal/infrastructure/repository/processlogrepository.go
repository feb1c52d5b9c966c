package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/infrastructure/persistence/mappers"
	"nmqueue/internal/infrastructure/persistence/models"
	db "nmqueue/internal/shared/db"
)

// ProcessLogRepository persists the append-only audit trail. It exposes no
// update or delete operations.
type ProcessLogRepository struct {
	db     *gorm.DB
	mapper mappers.ProcessMapper
}

func NewProcessLogRepository(gdb *gorm.DB) *ProcessLogRepository {
	return &ProcessLogRepository{
		db:     gdb,
		mapper: mappers.NewProcessMapper(),
	}
}

func (r *ProcessLogRepository) Append(ctx context.Context, entry *process.LogEntry) error {
	model := r.mapper.LogToModel(entry)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}

	return entry.SetID(model.ID)
}

func (r *ProcessLogRepository) ListByProcess(ctx context.Context, processID uint) ([]*process.LogEntry, error) {
	var logModels []models.ProcessLogModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("process_id = ?", processID).
		Order("logged_at ASC, id ASC").
		Find(&logModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}

	return r.toDomainSlice(logModels)
}

func (r *ProcessLogRepository) LastByProcess(ctx context.Context, processID uint) (*process.LogEntry, error) {
	var model models.ProcessLogModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("process_id = ?", processID).
		Order("logged_at DESC, id DESC").
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find log entry: %w", err)
	}

	return r.mapper.LogToDomain(&model)
}

func (r *ProcessLogRepository) ListByProgressSince(ctx context.Context, progress membership.Progress, since time.Time) ([]*process.LogEntry, error) {
	var logModels []models.ProcessLogModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("progress = ? AND logged_at >= ?", progress.String(), since.UnixMilli()).
		Order("logged_at ASC").
		Find(&logModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}

	return r.toDomainSlice(logModels)
}

func (r *ProcessLogRepository) toDomainSlice(logModels []models.ProcessLogModel) ([]*process.LogEntry, error) {
	entries := make([]*process.LogEntry, len(logModels))
	for i := range logModels {
		entry, err := r.mapper.LogToDomain(&logModels[i])
		if err != nil {
			return nil, err
		}
		entries[i] = entry
	}
	return entries, nil
}
