package usecases

import (
	"context"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/biztime"
	"nmqueue/internal/shared/logger"
)

// CtteWindowDays is the approval window that qualifies an active manager for
// committee membership.
const CtteWindowDays = 183

type RecomputeCtteResult struct {
	Members int
	Demoted int
}

// RecomputeCtteUseCase rewrites the derived is_am_ctte flag: active managers
// with a manager approval logged inside the window are members. Run
// periodically; the flag is never hand-edited.
type RecomputeCtteUseCase struct {
	amRepo  process.AMRepository
	logRepo process.LogRepository
	logger  logger.Interface
}

func NewRecomputeCtteUseCase(
	amRepo process.AMRepository,
	logRepo process.LogRepository,
	logger logger.Interface,
) *RecomputeCtteUseCase {
	return &RecomputeCtteUseCase{
		amRepo:  amRepo,
		logRepo: logRepo,
		logger:  logger,
	}
}

func (uc *RecomputeCtteUseCase) Execute(ctx context.Context) (*RecomputeCtteResult, error) {
	since := biztime.DaysAgoUTC(CtteWindowDays)

	approvals, err := uc.logRepo.ListByProgressSince(ctx, membership.ProgressAMOK, since)
	if err != nil {
		return nil, err
	}

	approvers := make(map[uint]bool, len(approvals))
	for _, entry := range approvals {
		if entry.ChangedByID() != nil {
			approvers[*entry.ChangedByID()] = true
		}
	}

	ams, err := uc.amRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := &RecomputeCtteResult{}
	for _, am := range ams {
		member := am.IsAM() && approvers[am.PersonID()]
		if member == am.IsAMCtte() {
			continue
		}
		am.SetCtteMember(member)
		if err := uc.amRepo.Update(ctx, am); err != nil {
			uc.logger.Warnw("failed to update committee flag", "am_id", am.ID(), "error", err)
			continue
		}
		if member {
			result.Members++
		} else {
			result.Demoted++
		}
	}

	uc.logger.Infow("committee membership recomputed",
		"window_days", CtteWindowDays, "promoted", result.Members, "demoted", result.Demoted)
	return result, nil
}
