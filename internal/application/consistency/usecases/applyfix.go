package usecases

import (
	"context"
	"fmt"

	processusecases "nmqueue/internal/application/process/usecases"
	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

type ApplyFixCommand struct {
	Kind      consistency.Kind
	EntityKey string
	ActorID   uint
	Message   string
}

type ApplyFixResult struct {
	PersonID  uint
	NewStatus string
}

// ApplyFixUseCase is the explicit human-triggered path that turns a
// suggested status fix into an actual change. Preconditions are re-validated
// against live data before acting; the inconsistency record is removed only
// once the fix is confirmed applied.
type ApplyFixUseCase struct {
	incRepo      consistency.Repository
	personRepo   person.Repository
	changeStatus processusecases.ChangeStatusExecutor
	logger       logger.Interface
}

func NewApplyFixUseCase(
	incRepo consistency.Repository,
	personRepo person.Repository,
	changeStatus processusecases.ChangeStatusExecutor,
	logger logger.Interface,
) *ApplyFixUseCase {
	return &ApplyFixUseCase{
		incRepo:      incRepo,
		personRepo:   personRepo,
		changeStatus: changeStatus,
		logger:       logger,
	}
}

func (uc *ApplyFixUseCase) Execute(ctx context.Context, cmd ApplyFixCommand) (*ApplyFixResult, error) {
	if cmd.EntityKey == "" {
		return nil, errors.NewValidationError("entity key is required")
	}
	if cmd.Message == "" {
		return nil, errors.NewValidationError("a justification message is required")
	}

	rec, err := uc.incRepo.GetByEntity(ctx, cmd.Kind, cmd.EntityKey)
	if err != nil {
		return nil, errors.NewInternalError("failed to load inconsistency record")
	}
	if rec == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no inconsistency record for %s", cmd.EntityKey))
	}

	suggested := membership.Status(rec.Info.Extra["suggested_status"])
	if suggested == "" {
		return nil, errors.NewValidationError("record carries no applicable suggested fix")
	}
	if !suggested.IsValid() {
		return nil, errors.NewParseError(fmt.Sprintf("suggested status %q is not in the taxonomy", suggested))
	}
	if rec.Kind != consistency.KindPerson {
		return nil, errors.NewValidationError("only person-keyed fixes can be applied")
	}

	p, err := uc.personRepo.GetByID(ctx, rec.PersonID)
	if err != nil || p == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("person %d no longer exists", rec.PersonID))
	}
	if p.Status() == suggested {
		// The divergence resolved itself since detection; just clear the
		// record.
		if err := uc.incRepo.DeleteByEntity(ctx, cmd.Kind, cmd.EntityKey); err != nil {
			return nil, errors.NewInternalError("failed to remove resolved record")
		}
		return &ApplyFixResult{PersonID: p.ID(), NewStatus: suggested.String()}, nil
	}

	res, err := uc.changeStatus.Execute(ctx, processusecases.ChangeStatusCommand{
		PersonKey: personKey(p),
		NewStatus: suggested,
		ActorID:   cmd.ActorID,
		Message:   cmd.Message,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.incRepo.DeleteByEntity(ctx, cmd.Kind, cmd.EntityKey); err != nil {
		uc.logger.Warnw("fix applied but record removal failed",
			"entity", cmd.EntityKey, "error", err)
	}

	uc.logger.Infow("inconsistency fix applied",
		"person_id", res.PersonID, "new_status", res.NewStatus, "actor_id", cmd.ActorID)

	return &ApplyFixResult{PersonID: res.PersonID, NewStatus: res.NewStatus}, nil
}
