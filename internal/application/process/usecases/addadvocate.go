package usecases

import (
	"context"
	"fmt"
	"time"

	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

type AddAdvocateCommand struct {
	ProcessID  uint
	AdvocateID uint
	Message    string
}

type AddAdvocateResult struct {
	ProcessID uint
	Advocates []uint
}

// AddAdvocateUseCase records an endorsement. Advocates must themselves hold
// a developer status; the endorsement is logged publicly.
type AddAdvocateUseCase struct {
	processRepo process.Repository
	logRepo     process.LogRepository
	personRepo  person.Repository
	logger      logger.Interface
}

func NewAddAdvocateUseCase(
	processRepo process.Repository,
	logRepo process.LogRepository,
	personRepo person.Repository,
	logger logger.Interface,
) *AddAdvocateUseCase {
	return &AddAdvocateUseCase{
		processRepo: processRepo,
		logRepo:     logRepo,
		personRepo:  personRepo,
		logger:      logger,
	}
}

func (uc *AddAdvocateUseCase) Execute(ctx context.Context, cmd AddAdvocateCommand) (*AddAdvocateResult, error) {
	if cmd.ProcessID == 0 || cmd.AdvocateID == 0 {
		return nil, errors.NewValidationError("process ID and advocate ID are required")
	}
	if cmd.Message == "" {
		return nil, errors.NewValidationError("an advocacy message is required")
	}

	proc, err := uc.processRepo.GetByID(ctx, cmd.ProcessID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load process")
	}
	if proc == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("process %d not found", cmd.ProcessID))
	}
	if !proc.IsActive() {
		return nil, errors.NewInvalidTransitionError("cannot advocate an inactive process")
	}

	advocate, err := uc.personRepo.GetByID(ctx, cmd.AdvocateID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load advocate")
	}
	if advocate == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("person %d not found", cmd.AdvocateID))
	}
	if !advocate.Status().IsDeveloper() {
		return nil, errors.NewPermissionDeniedError(
			fmt.Sprintf("person %d holds %s and cannot advocate", advocate.ID(), advocate.Status()))
	}

	if err := proc.AddAdvocate(cmd.AdvocateID); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}

	if err := uc.processRepo.Update(ctx, proc); err != nil {
		uc.logger.Errorw("failed to persist advocacy", "process_id", proc.ID(), "error", err)
		return nil, errors.NewInternalError("failed to update process")
	}

	advocateID := cmd.AdvocateID
	entry, err := process.NewLogEntry(proc.ID(), &advocateID, proc.Progress(), cmd.Message, true, time.Now())
	if err == nil {
		if err := uc.logRepo.Append(ctx, entry); err != nil {
			uc.logger.Warnw("failed to log advocacy", "process_id", proc.ID(), "error", err)
		}
	}

	uc.logger.Infow("advocacy recorded", "process_id", proc.ID(), "advocate_id", cmd.AdvocateID)

	return &AddAdvocateResult{
		ProcessID: proc.ID(),
		Advocates: proc.AdvocateIDs(),
	}, nil
}
