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

type ProcessDoneCommand struct {
	ProcessID uint
	ActorID   uint
	Message   string
	Timestamp time.Time
}

// ProcessDoneUseCase completes an existing process. A thin caller of the
// transition contract with the same invariants.
type ProcessDoneUseCase struct {
	processRepo process.Repository
	transition  ApplyTransitionExecutor
	logger      logger.Interface
}

func NewProcessDoneUseCase(
	processRepo process.Repository,
	transition ApplyTransitionExecutor,
	logger logger.Interface,
) *ProcessDoneUseCase {
	return &ProcessDoneUseCase{
		processRepo: processRepo,
		transition:  transition,
		logger:      logger,
	}
}

func (uc *ProcessDoneUseCase) Execute(ctx context.Context, cmd ProcessDoneCommand) (*ApplyTransitionResult, error) {
	if cmd.Message == "" {
		return nil, errors.NewValidationError("a justification message is required")
	}

	proc, err := uc.processRepo.GetByID(ctx, cmd.ProcessID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load process")
	}
	if proc == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("process %d not found", cmd.ProcessID))
	}

	return uc.transition.Execute(ctx, ApplyTransitionCommand{
		ProcessID:   cmd.ProcessID,
		NewProgress: membership.ProgressDone,
		ActorID:     cmd.ActorID,
		Message:     cmd.Message,
		Timestamp:   cmd.Timestamp,
		IsPublic:    true,
	})
}
