package usecases

import (
	"context"
	"fmt"
	"time"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

type UncancelCommand struct {
	ProcessID uint
	Target    membership.Progress
	ActorID   uint
	Message   string
}

type UncancelResult struct {
	ProcessID uint
	Progress  string
}

// UncancelUseCase is the distinct privileged path that reactivates a
// canceled process. It is not a normal transition: terminal processes are
// otherwise immutable. Requires DAM or front desk.
type UncancelUseCase struct {
	processRepo process.Repository
	logRepo     process.LogRepository
	amRepo      process.AMRepository
	logger      logger.Interface
}

func NewUncancelUseCase(
	processRepo process.Repository,
	logRepo process.LogRepository,
	amRepo process.AMRepository,
	logger logger.Interface,
) *UncancelUseCase {
	return &UncancelUseCase{
		processRepo: processRepo,
		logRepo:     logRepo,
		amRepo:      amRepo,
		logger:      logger,
	}
}

func (uc *UncancelUseCase) Execute(ctx context.Context, cmd UncancelCommand) (*UncancelResult, error) {
	if cmd.ProcessID == 0 {
		return nil, errors.NewValidationError("process ID is required")
	}
	if cmd.Message == "" {
		return nil, errors.NewValidationError("a justification message is required")
	}

	actorAM, err := uc.amRepo.GetByPersonID(ctx, cmd.ActorID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load actor AM record")
	}
	if actorAM == nil || !actorAM.IsAdmin() {
		return nil, errors.NewPermissionDeniedError("un-cancel requires front desk or DAM")
	}

	proc, err := uc.processRepo.GetByID(ctx, cmd.ProcessID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load process")
	}
	if proc == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("process %d not found", cmd.ProcessID))
	}

	target := cmd.Target
	if target == "" {
		target = membership.ProgressAppOK
	}

	if err := proc.Reactivate(target); err != nil {
		return nil, errors.NewInvalidTransitionError(err.Error())
	}

	if err := uc.processRepo.Update(ctx, proc); err != nil {
		uc.logger.Errorw("failed to persist un-cancel", "process_id", proc.ID(), "error", err)
		return nil, errors.NewInternalError("failed to update process")
	}

	actorID := cmd.ActorID
	entry, err := process.NewLogEntry(proc.ID(), &actorID, proc.Progress(), cmd.Message, false, time.Now())
	if err == nil {
		if err := uc.logRepo.Append(ctx, entry); err != nil {
			uc.logger.Warnw("failed to log un-cancel", "process_id", proc.ID(), "error", err)
		}
	}

	uc.logger.Infow("process reactivated", "process_id", proc.ID(), "target", target, "actor_id", cmd.ActorID)

	return &UncancelResult{
		ProcessID: proc.ID(),
		Progress:  proc.Progress().String(),
	}, nil
}
