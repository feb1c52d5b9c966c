package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

type CreateProcessCommand struct {
	PersonID    uint
	ApplyingFor membership.Status
}

type CreateProcessResult struct {
	ProcessID  uint
	ArchiveKey string
	Progress   string
}

// CreateProcessUseCase starts an application. The one-active-process rule is
// checked here against what the store currently knows; concurrent
// submissions that race past it are tolerated and flagged by the consistency
// checker rather than rejected by a database constraint.
type CreateProcessUseCase struct {
	processRepo process.Repository
	logRepo     process.LogRepository
	personRepo  person.Repository
	logger      logger.Interface
}

func NewCreateProcessUseCase(
	processRepo process.Repository,
	logRepo process.LogRepository,
	personRepo person.Repository,
	logger logger.Interface,
) *CreateProcessUseCase {
	return &CreateProcessUseCase{
		processRepo: processRepo,
		logRepo:     logRepo,
		personRepo:  personRepo,
		logger:      logger,
	}
}

func (uc *CreateProcessUseCase) Execute(ctx context.Context, cmd CreateProcessCommand) (*CreateProcessResult, error) {
	if cmd.PersonID == 0 {
		return nil, errors.NewValidationError("person ID is required")
	}
	if !cmd.ApplyingFor.IsValid() {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown status %q", cmd.ApplyingFor))
	}

	p, err := uc.personRepo.GetByID(ctx, cmd.PersonID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load person")
	}
	if p == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("person %d not found", cmd.PersonID))
	}

	existing, err := uc.processRepo.GetActiveByPersonID(ctx, cmd.PersonID)
	if err != nil {
		return nil, errors.NewInternalError("failed to check for active process")
	}
	if existing != nil {
		return nil, errors.NewConflictError(
			fmt.Sprintf("person %d already has active process %d", cmd.PersonID, existing.ID()))
	}

	proc, err := process.NewProcess(cmd.PersonID, p.Status(), cmd.ApplyingFor, archiveKeyFor(p))
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.processRepo.Create(ctx, proc); err != nil {
		uc.logger.Errorw("failed to create process", "person_id", cmd.PersonID, "error", err)
		return nil, errors.NewInternalError("failed to create process")
	}

	entry, err := process.NewLogEntry(proc.ID(), nil, proc.Progress(), "process started", true, proc.CreatedAt())
	if err == nil {
		if err := uc.logRepo.Append(ctx, entry); err != nil {
			uc.logger.Warnw("failed to write initial log entry", "process_id", proc.ID(), "error", err)
		}
	}

	uc.logger.Infow("process created",
		"process_id", proc.ID(), "person_id", cmd.PersonID,
		"applying_as", proc.ApplyingAs(), "applying_for", proc.ApplyingFor())

	return &CreateProcessResult{
		ProcessID:  proc.ID(),
		ArchiveKey: proc.ArchiveKey(),
		Progress:   proc.Progress().String(),
	}, nil
}

// archiveKeyFor derives the unique mail-archive key for a new process.
func archiveKeyFor(p *person.Person) string {
	base := p.Email().LocalPart()
	if p.UID() != nil {
		base = *p.UID()
	}
	return fmt.Sprintf("%s-%s", base, strings.Split(uuid.NewString(), "-")[0])
}
