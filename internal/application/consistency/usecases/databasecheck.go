package usecases

import (
	"context"

	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

// DatabaseCheck verifies our own invariants that are enforced detectively
// rather than at write time: one active process per person, and a process's
// progress agreeing with its latest log entry.
type DatabaseCheck struct {
	processRepo process.Repository
	logRepo     process.LogRepository
	incRepo     consistency.Repository
	logger      logger.Interface
}

func NewDatabaseCheck(
	processRepo process.Repository,
	logRepo process.LogRepository,
	incRepo consistency.Repository,
	logger logger.Interface,
) *DatabaseCheck {
	return &DatabaseCheck{
		processRepo: processRepo,
		logRepo:     logRepo,
		incRepo:     incRepo,
		logger:      logger,
	}
}

func (c *DatabaseCheck) Name() string { return "database" }

func (c *DatabaseCheck) Run(ctx context.Context) (*Report, error) {
	report := &Report{CheckName: c.Name()}

	active, err := c.processRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list active processes")
	}

	byPerson := map[uint][]*process.Process{}
	for _, proc := range active {
		byPerson[proc.PersonID()] = append(byPerson[proc.PersonID()], proc)
	}

	for personID, procs := range byPerson {
		if len(procs) < 2 {
			continue
		}
		for _, proc := range procs {
			rec := consistency.NewProcessRecord(proc.ID(), personID)
			rec.Info.AddLog("person %d has %d active processes", personID, len(procs))
			if err := c.incRepo.Upsert(ctx, rec); err != nil {
				return nil, err
			}
			report.Findings++
		}
	}

	// A process's progress must equal its newest log entry's progress.
	// Divergence is reported, never auto-corrected.
	for _, proc := range active {
		last, err := c.logRepo.LastByProcess(ctx, proc.ID())
		if err != nil {
			c.logger.Warnw("failed to read last log entry", "process_id", proc.ID(), "error", err)
			report.Skipped++
			continue
		}
		if last == nil || last.Progress() == proc.Progress() {
			continue
		}

		rec := consistency.NewProcessRecord(proc.ID(), proc.PersonID())
		rec.Info.AddLog("progress is %s but the latest log entry says %s", proc.Progress(), last.Progress())
		if err := c.incRepo.Upsert(ctx, rec); err != nil {
			return nil, err
		}
		report.Findings++
	}

	return report, nil
}
