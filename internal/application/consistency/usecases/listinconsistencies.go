package usecases

import (
	"context"
	"time"

	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

type ListInconsistenciesCommand struct {
	Kind string // empty = all kinds
}

type InconsistencyView struct {
	Kind        string
	EntityKey   string
	PersonID    uint
	ProcessID   uint
	Fingerprint string
	Log         []string
	Extra       map[string]string
	CreatedAt   time.Time
}

type ListInconsistenciesResult struct {
	Records []InconsistencyView
}

// ListInconsistenciesUseCase exposes the current reconciliation findings to
// the front desk review surface.
type ListInconsistenciesUseCase struct {
	repo   consistency.Repository
	logger logger.Interface
}

func NewListInconsistenciesUseCase(repo consistency.Repository, logger logger.Interface) *ListInconsistenciesUseCase {
	return &ListInconsistenciesUseCase{repo: repo, logger: logger}
}

func (uc *ListInconsistenciesUseCase) Execute(ctx context.Context, cmd ListInconsistenciesCommand) (*ListInconsistenciesResult, error) {
	kind := consistency.Kind(cmd.Kind)
	if cmd.Kind != "" && !kind.IsValid() {
		return nil, errors.NewValidationError("unknown inconsistency kind: " + cmd.Kind)
	}

	records, err := uc.repo.List(ctx, kind)
	if err != nil {
		uc.logger.Errorw("failed to list inconsistencies", "kind", cmd.Kind, "error", err)
		return nil, errors.NewInternalError("failed to list inconsistencies")
	}

	result := &ListInconsistenciesResult{}
	for _, r := range records {
		view := InconsistencyView{
			Kind:        string(r.Kind),
			EntityKey:   r.EntityKey(),
			PersonID:    r.PersonID,
			ProcessID:   r.ProcessID,
			Fingerprint: r.Fingerprint,
			CreatedAt:   r.CreatedAt,
		}
		if r.Info != nil {
			view.Log = r.Info.Log
			view.Extra = r.Info.Extra
		}
		result.Records = append(result.Records, view)
	}

	return result, nil
}
