// Package usecases runs the reconciliation passes that compare the local
// database against the external authoritative sources and record divergence.
package usecases

import (
	"context"

	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

// Report is one check's aggregate outcome.
type Report struct {
	CheckName string
	Findings  int
	Skipped   int // per-record parse failures tolerated and skipped
}

// Check is one reconciliation pass. Checks run in registration order; each
// commits its own findings independently, so an aborted run leaves completed
// passes' records intact.
type Check interface {
	Name() string
	Run(ctx context.Context) (*Report, error)
}

type RunReconciliationResult struct {
	Reports  []*Report
	Findings int
	Skipped  int
	Failed   []string // checks skipped whole because their source was down
}

// RunReconciliationUseCase drives the registered checks in order. The record
// store is reset once at the start; each pass repopulates its own share, so
// rerunning with unchanged data yields identical records.
type RunReconciliationUseCase struct {
	incRepo consistency.Repository
	checks  []Check
	logger  logger.Interface
}

func NewRunReconciliationUseCase(
	incRepo consistency.Repository,
	checks []Check,
	logger logger.Interface,
) *RunReconciliationUseCase {
	return &RunReconciliationUseCase{
		incRepo: incRepo,
		checks:  checks,
		logger:  logger,
	}
}

func (uc *RunReconciliationUseCase) Execute(ctx context.Context) (*RunReconciliationResult, error) {
	if err := uc.incRepo.Reset(ctx); err != nil {
		return nil, errors.NewInternalError("failed to reset inconsistency records", err.Error())
	}

	result := &RunReconciliationResult{}
	for _, check := range uc.checks {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		report, err := check.Run(ctx)
		if err != nil {
			// A dead source skips its pass; everything else still runs.
			if errors.IsSourceUnavailableError(err) {
				uc.logger.Warnw("source unavailable, pass skipped",
					"check", check.Name(), "error", err)
				result.Failed = append(result.Failed, check.Name())
				continue
			}
			return result, err
		}

		result.Reports = append(result.Reports, report)
		result.Findings += report.Findings
		result.Skipped += report.Skipped
	}

	uc.logger.Infow("reconciliation completed",
		"findings", result.Findings, "skipped", result.Skipped, "failed_passes", result.Failed)
	return result, nil
}
