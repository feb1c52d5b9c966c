package usecases

import (
	"context"
	"fmt"
	"time"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/permission"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

type ApplyTransitionCommand struct {
	ProcessID   uint
	NewProgress membership.Progress
	ActorID     uint
	Message     string
	Timestamp   time.Time // zero = now
	IsPublic    bool
}

type ApplyTransitionResult struct {
	ProcessID   uint
	OldProgress string
	NewProgress string
	IsActive    bool
	LoggedAt    time.Time
}

// ApplyTransitionUseCase is the single entry point through which a process
// changes progress. Administrative operations are thin callers of this same
// contract.
type ApplyTransitionUseCase struct {
	processRepo process.Repository
	logRepo     process.LogRepository
	personRepo  person.Repository
	amRepo      process.AMRepository
	tx          TransactionRunner
	notifier    Notifier
	logger      logger.Interface
}

func NewApplyTransitionUseCase(
	processRepo process.Repository,
	logRepo process.LogRepository,
	personRepo person.Repository,
	amRepo process.AMRepository,
	tx TransactionRunner,
	notifier Notifier,
	logger logger.Interface,
) *ApplyTransitionUseCase {
	return &ApplyTransitionUseCase{
		processRepo: processRepo,
		logRepo:     logRepo,
		personRepo:  personRepo,
		amRepo:      amRepo,
		tx:          tx,
		notifier:    notifier,
		logger:      logger,
	}
}

func (uc *ApplyTransitionUseCase) Execute(ctx context.Context, cmd ApplyTransitionCommand) (*ApplyTransitionResult, error) {
	if err := uc.validateCommand(cmd); err != nil {
		return nil, err
	}

	proc, err := uc.processRepo.GetByID(ctx, cmd.ProcessID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load process", err.Error())
	}
	if proc == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("process %d not found", cmd.ProcessID))
	}

	subject, err := uc.personRepo.GetByID(ctx, proc.PersonID())
	if err != nil || subject == nil {
		return nil, errors.NewInternalError("failed to load process owner")
	}

	caps, err := uc.actorCapabilities(ctx, cmd.ActorID, subject, proc)
	if err != nil {
		return nil, err
	}
	if !caps.Authorizes(cmd.NewProgress) {
		uc.logger.Warnw("transition denied",
			"process_id", proc.ID(), "actor_id", cmd.ActorID,
			"target", cmd.NewProgress, "capabilities", caps.String())
		return nil, errors.NewPermissionDeniedError(
			fmt.Sprintf("actor may not move process %d to %s", proc.ID(), cmd.NewProgress))
	}

	ts := cmd.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	oldProgress := proc.Progress()

	var newEntry, prevEntry *process.LogEntry
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		prevEntry, err = uc.logRepo.LastByProcess(ctx, proc.ID())
		if err != nil {
			return fmt.Errorf("failed to read last log entry: %w", err)
		}

		if err := proc.AdvanceProgress(cmd.NewProgress); err != nil {
			return errors.NewInvalidTransitionError(err.Error())
		}

		// Completion is the sole path by which a person's status advances,
		// aside from direct reconciliation import.
		if cmd.NewProgress == membership.ProgressDone {
			if err := subject.ChangeStatus(proc.ApplyingFor(), ts); err != nil {
				return errors.NewInvalidTransitionError(err.Error())
			}
			if err := uc.personRepo.Update(ctx, subject); err != nil {
				return fmt.Errorf("failed to update person status: %w", err)
			}
		}

		if err := uc.processRepo.Update(ctx, proc); err != nil {
			return fmt.Errorf("failed to update process: %w", err)
		}

		actorID := cmd.ActorID
		newEntry, err = process.NewLogEntry(proc.ID(), &actorID, cmd.NewProgress, cmd.Message, cmd.IsPublic, ts)
		if err != nil {
			return err
		}
		return uc.logRepo.Append(ctx, newEntry)
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("transition failed", "process_id", cmd.ProcessID, "error", err)
		return nil, errors.NewInternalError("failed to apply transition")
	}

	uc.logger.Infow("process transitioned",
		"process_id", proc.ID(), "old", oldProgress, "new", proc.Progress(),
		"actor_id", cmd.ActorID)

	if uc.notifier != nil {
		if err := uc.notifier.OnTransition(ctx, newEntry, prevEntry); err != nil {
			uc.logger.Warnw("transition notification failed",
				"process_id", proc.ID(), "error", err)
		}
	}

	return &ApplyTransitionResult{
		ProcessID:   proc.ID(),
		OldProgress: oldProgress.String(),
		NewProgress: proc.Progress().String(),
		IsActive:    proc.IsActive(),
		LoggedAt:    ts,
	}, nil
}

func (uc *ApplyTransitionUseCase) validateCommand(cmd ApplyTransitionCommand) error {
	if cmd.ProcessID == 0 {
		return errors.NewValidationError("process ID is required")
	}
	if !cmd.NewProgress.IsValid() {
		return errors.NewInvalidTransitionError(fmt.Sprintf("unknown progress %q", cmd.NewProgress))
	}
	if cmd.ActorID == 0 {
		return errors.NewValidationError("actor is required")
	}
	if cmd.Message == "" {
		return errors.NewValidationError("a justification message is required")
	}
	return nil
}

// actorCapabilities evaluates the actor's permission set over the process
// owner.
func (uc *ApplyTransitionUseCase) actorCapabilities(ctx context.Context, actorID uint, subject *person.Person, proc *process.Process) (permission.Capabilities, error) {
	actor, err := uc.personRepo.GetByID(ctx, actorID)
	if err != nil {
		return permission.None, errors.NewInternalError("failed to load actor")
	}
	if actor == nil {
		return permission.None, errors.NewNotFoundError(fmt.Sprintf("actor %d not found", actorID))
	}

	actorAM, err := uc.amRepo.GetByPersonID(ctx, actorID)
	if err != nil {
		return permission.None, errors.NewInternalError("failed to load actor AM record")
	}

	view := permission.View{
		Subject:  subject,
		Viewer:   actor,
		ViewerAM: actorAM,
	}
	if proc.IsActive() {
		view.ActiveProcess = proc
	}
	return permission.PermissionsOf(view), nil
}
