package mappers

import (
	"fmt"
	"time"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/infrastructure/persistence/models"
)

// ProcessMapper handles the conversion between Process domain entities and persistence models.
type ProcessMapper interface {
	// ToModel converts a process domain entity to a persistence model.
	ToModel(p *process.Process) *models.ProcessModel

	// ToDomain converts a process persistence model to a domain entity.
	// Advocate IDs are stored in a join table and must be supplied by the
	// repository.
	ToDomain(model *models.ProcessModel, advocateIDs []uint) (*process.Process, error)

	// LogToModel converts a log entry to a persistence model.
	LogToModel(entry *process.LogEntry) *models.ProcessLogModel

	// LogToDomain converts a log persistence model to a domain entity.
	LogToDomain(model *models.ProcessLogModel) (*process.LogEntry, error)
}

// ProcessMapperImpl is the concrete implementation of ProcessMapper.
type ProcessMapperImpl struct{}

// NewProcessMapper creates a new ProcessMapper.
func NewProcessMapper() ProcessMapper {
	return &ProcessMapperImpl{}
}

// ToModel converts a process domain entity to a persistence model.
func (m *ProcessMapperImpl) ToModel(p *process.Process) *models.ProcessModel {
	return &models.ProcessModel{
		ID:          p.ID(),
		PersonID:    p.PersonID(),
		ApplyingAs:  p.ApplyingAs().String(),
		ApplyingFor: p.ApplyingFor().String(),
		Progress:    p.Progress().String(),
		ManagerID:   p.ManagerID(),
		IsActive:    p.IsActive(),
		ArchiveKey:  p.ArchiveKey(),
		CreatedAt:   p.CreatedAt().UnixMilli(),
	}
}

// ToDomain converts a process persistence model to a domain entity.
func (m *ProcessMapperImpl) ToDomain(model *models.ProcessModel, advocateIDs []uint) (*process.Process, error) {
	p, err := process.ReconstructProcess(
		model.ID,
		model.PersonID,
		membership.Status(model.ApplyingAs),
		membership.Status(model.ApplyingFor),
		membership.Progress(model.Progress),
		model.ManagerID,
		advocateIDs,
		model.ArchiveKey,
		time.UnixMilli(model.CreatedAt).UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("reconstruct process %d: %w", model.ID, err)
	}
	return p, nil
}

// LogToModel converts a log entry to a persistence model.
func (m *ProcessMapperImpl) LogToModel(entry *process.LogEntry) *models.ProcessLogModel {
	return &models.ProcessLogModel{
		ID:          entry.ID(),
		ProcessID:   entry.ProcessID(),
		ChangedByID: entry.ChangedByID(),
		Progress:    entry.Progress().String(),
		LoggedAt:    entry.LoggedAt().UnixMilli(),
		Message:     entry.Message(),
		IsPublic:    entry.IsPublic(),
	}
}

// LogToDomain converts a log persistence model to a domain entity.
func (m *ProcessMapperImpl) LogToDomain(model *models.ProcessLogModel) (*process.LogEntry, error) {
	entry, err := process.ReconstructLogEntry(
		model.ID,
		model.ProcessID,
		model.ChangedByID,
		membership.Progress(model.Progress),
		model.Message,
		model.IsPublic,
		time.UnixMilli(model.LoggedAt).UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("reconstruct log entry %d: %w", model.ID, err)
	}
	return entry, nil
}
