package usecases

import (
	"context"
	"fmt"
	"time"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

type AssignManagerCommand struct {
	ProcessID uint
	AMID      uint
	ActorID   uint
}

type AssignManagerResult struct {
	ProcessID uint
	AMID      uint
	Progress  string
}

// AssignManagerUseCase assigns a manager to a queued process, respecting the
// manager's slot capacity. Assignment is a front-desk operation.
type AssignManagerUseCase struct {
	processRepo process.Repository
	logRepo     process.LogRepository
	personRepo  person.Repository
	amRepo      process.AMRepository
	logger      logger.Interface
}

func NewAssignManagerUseCase(
	processRepo process.Repository,
	logRepo process.LogRepository,
	personRepo person.Repository,
	amRepo process.AMRepository,
	logger logger.Interface,
) *AssignManagerUseCase {
	return &AssignManagerUseCase{
		processRepo: processRepo,
		logRepo:     logRepo,
		personRepo:  personRepo,
		amRepo:      amRepo,
		logger:      logger,
	}
}

func (uc *AssignManagerUseCase) Execute(ctx context.Context, cmd AssignManagerCommand) (*AssignManagerResult, error) {
	if cmd.ProcessID == 0 || cmd.AMID == 0 {
		return nil, errors.NewValidationError("process ID and AM ID are required")
	}

	actorAM, err := uc.amRepo.GetByPersonID(ctx, cmd.ActorID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load actor AM record")
	}
	if actorAM == nil || !actorAM.IsAdmin() {
		return nil, errors.NewPermissionDeniedError("manager assignment requires front desk")
	}

	proc, err := uc.processRepo.GetByID(ctx, cmd.ProcessID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load process")
	}
	if proc == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("process %d not found", cmd.ProcessID))
	}

	am, err := uc.amRepo.GetByID(ctx, cmd.AMID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load AM record")
	}
	if am == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("AM %d not found", cmd.AMID))
	}

	assigned, err := uc.processRepo.CountActiveByManager(ctx, am.ID())
	if err != nil {
		return nil, errors.NewInternalError("failed to count assigned processes")
	}
	if !am.HasFreeSlot(int(assigned)) {
		return nil, errors.NewConflictError(
			fmt.Sprintf("AM %d has no free slot (%d/%d)", am.ID(), assigned, am.Slots()))
	}

	if err := proc.AssignManager(am.ID()); err != nil {
		return nil, errors.NewInvalidTransitionError(err.Error())
	}
	if err := proc.AdvanceProgress(membership.ProgressAM); err != nil {
		return nil, errors.NewInvalidTransitionError(err.Error())
	}

	if err := uc.processRepo.Update(ctx, proc); err != nil {
		uc.logger.Errorw("failed to persist manager assignment", "process_id", proc.ID(), "error", err)
		return nil, errors.NewInternalError("failed to update process")
	}

	actorID := cmd.ActorID
	entry, err := process.NewLogEntry(proc.ID(), &actorID, proc.Progress(),
		fmt.Sprintf("assigned to AM %d", am.ID()), false, time.Now())
	if err == nil {
		if err := uc.logRepo.Append(ctx, entry); err != nil {
			uc.logger.Warnw("failed to log manager assignment", "process_id", proc.ID(), "error", err)
		}
	}

	uc.logger.Infow("manager assigned", "process_id", proc.ID(), "am_id", am.ID(), "actor_id", cmd.ActorID)

	return &AssignManagerResult{
		ProcessID: proc.ID(),
		AMID:      am.ID(),
		Progress:  proc.Progress().String(),
	}, nil
}
