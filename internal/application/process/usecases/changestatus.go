package usecases

import (
	"context"
	"fmt"
	"time"

	personusecases "nmqueue/internal/application/person/usecases"
	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

type ChangeStatusCommand struct {
	PersonKey string // uid, fingerprint or email
	NewStatus membership.Status
	ActorID   uint
	Message   string
}

type ChangeStatusResult struct {
	PersonID  uint
	ProcessID uint
	OldStatus string
	NewStatus string
	ChangedAt time.Time
}

// ChangeStatusUseCase is the administrative status override. It creates a
// one-shot process and drives it through the normal transition contract, so
// the same invariants apply: no open competing process, a valid target
// status, a non-empty justification.
type ChangeStatusUseCase struct {
	personRepo  person.Repository
	processRepo process.Repository
	create      CreateProcessExecutor
	transition  ApplyTransitionExecutor
	logger      logger.Interface
}

func NewChangeStatusUseCase(
	personRepo person.Repository,
	processRepo process.Repository,
	create CreateProcessExecutor,
	transition ApplyTransitionExecutor,
	logger logger.Interface,
) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{
		personRepo:  personRepo,
		processRepo: processRepo,
		create:      create,
		transition:  transition,
		logger:      logger,
	}
}

func (uc *ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (*ChangeStatusResult, error) {
	if cmd.Message == "" {
		return nil, errors.NewValidationError("a justification message is required")
	}
	if !cmd.NewStatus.IsValid() {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown status %q", cmd.NewStatus))
	}

	p, err := personusecases.LookupPerson(ctx, uc.personRepo, cmd.PersonKey)
	if err != nil {
		return nil, err
	}

	oldStatus := p.Status()

	created, err := uc.create.Execute(ctx, CreateProcessCommand{
		PersonID:    p.ID(),
		ApplyingFor: cmd.NewStatus,
	})
	if err != nil {
		return nil, err
	}

	res, err := uc.transition.Execute(ctx, ApplyTransitionCommand{
		ProcessID:   created.ProcessID,
		NewProgress: membership.ProgressDone,
		ActorID:     cmd.ActorID,
		Message:     cmd.Message,
		IsPublic:    false,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("status changed administratively",
		"person_id", p.ID(), "old", oldStatus, "new", cmd.NewStatus, "actor_id", cmd.ActorID)

	return &ChangeStatusResult{
		PersonID:  p.ID(),
		ProcessID: created.ProcessID,
		OldStatus: oldStatus.String(),
		NewStatus: cmd.NewStatus.String(),
		ChangedAt: res.LoggedAt,
	}, nil
}
