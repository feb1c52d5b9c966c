package usecases

import (
	"context"
	"time"

	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/logger"
)

type ExpireSweepResult struct {
	Deleted int
	Flagged int
}

// ExpireSweepUseCase removes provisional records whose confirmation window
// has passed. Only unconfirmed applicants in the initial tier with no process
// history are deleted; anything else is flagged for front desk instead of
// being removed.
type ExpireSweepUseCase struct {
	personRepo  person.Repository
	processRepo process.Repository
	logger      logger.Interface
}

func NewExpireSweepUseCase(
	personRepo person.Repository,
	processRepo process.Repository,
	logger logger.Interface,
) *ExpireSweepUseCase {
	return &ExpireSweepUseCase{
		personRepo:  personRepo,
		processRepo: processRepo,
		logger:      logger,
	}
}

func (uc *ExpireSweepUseCase) Execute(ctx context.Context) (*ExpireSweepResult, error) {
	now := time.Now().UTC()

	expired, err := uc.personRepo.ListExpiredBefore(ctx, now)
	if err != nil {
		return nil, err
	}

	result := &ExpireSweepResult{}
	for _, p := range expired {
		procs, err := uc.processRepo.ListByPersonID(ctx, p.ID())
		if err != nil {
			uc.logger.Warnw("failed to list processes during sweep", "person_id", p.ID(), "error", err)
			continue
		}

		if p.CanBeDeleted() && len(procs) == 0 {
			if err := uc.personRepo.Delete(ctx, p.ID()); err != nil {
				uc.logger.Warnw("failed to delete expired record", "person_id", p.ID(), "error", err)
				continue
			}
			result.Deleted++
			continue
		}

		// Expired but has history or already advanced: keep it, surface it.
		p.SetFDComment("expired without confirmation, review manually")
		p.SetExpires(nil)
		if err := uc.personRepo.Update(ctx, p); err != nil {
			uc.logger.Warnw("failed to flag expired record", "person_id", p.ID(), "error", err)
			continue
		}
		result.Flagged++
	}

	uc.logger.Infow("expiry sweep completed", "deleted", result.Deleted, "flagged", result.Flagged)
	return result, nil
}
