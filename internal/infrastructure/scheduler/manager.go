// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	consistencyUsecases "nmqueue/internal/application/consistency/usecases"
	personUsecases "nmqueue/internal/application/person/usecases"
	processUsecases "nmqueue/internal/application/process/usecases"
	"nmqueue/internal/shared/biztime"
	sharedConfig "nmqueue/internal/shared/config"
	"nmqueue/internal/shared/logger"
)

// ReconcileRunner runs a full reconciliation pass.
type ReconcileRunner interface {
	Execute(ctx context.Context) (*consistencyUsecases.RunReconciliationResult, error)
}

// ExpireSweeper removes or flags lapsed provisional records.
type ExpireSweeper interface {
	Execute(ctx context.Context) (*personUsecases.ExpireSweepResult, error)
}

// SchedulerManager manages all scheduled maintenance jobs using gocron v2.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log.Named("scheduler"),
	}, nil
}

// RegisterReconcileJob schedules the reconciliation run on the configured
// cron expression. A run that is still going when the next tick arrives is
// rescheduled, never run concurrently.
func (m *SchedulerManager) RegisterReconcileJob(cfg *sharedConfig.ReconcileConfig, runner ReconcileRunner) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(cfg.CronExpr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()
			m.runReconcile(ctx, runner)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("reconcile"),
		gocron.WithName("reconcile"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered reconcile job", "cron", cfg.CronExpr)
	return nil
}

func (m *SchedulerManager) runReconcile(ctx context.Context, runner ReconcileRunner) {
	startTime := biztime.NowUTC()

	result, err := runner.Execute(ctx)
	if err != nil {
		m.logger.Errorw("reconciliation run failed",
			"error", err,
			"duration", time.Since(startTime))
		return
	}

	m.logger.Infow("reconciliation run finished",
		"findings", result.Findings,
		"skipped", result.Skipped,
		"failed_passes", result.Failed,
		"duration", time.Since(startTime))
}

// RegisterCtteRecomputeJob schedules the daily committee membership rewrite.
func (m *SchedulerManager) RegisterCtteRecomputeJob(recompute processUsecases.RecomputeCtteExecutor) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob("30 3 * * *", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			result, rerr := recompute.Execute(ctx)
			if rerr != nil {
				m.logger.Errorw("committee recompute failed", "error", rerr)
				return
			}
			m.logger.Infow("committee recompute finished",
				"members", result.Members,
				"demoted", result.Demoted)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("ctte"),
		gocron.WithName("ctte-recompute"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered committee recompute job")
	return nil
}

// RegisterExpireSweepJob schedules the daily provisional-record sweep at the
// configured hour.
func (m *SchedulerManager) RegisterExpireSweepJob(hour int, sweeper ExpireSweeper) error {
	if hour < 0 || hour > 23 {
		hour = 4
	}

	_, err := m.scheduler.NewJob(
		gocron.CronJob(fmt.Sprintf("0 %d * * *", hour), false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			result, serr := sweeper.Execute(ctx)
			if serr != nil {
				m.logger.Errorw("expire sweep failed", "error", serr)
				return
			}
			m.logger.Infow("expire sweep finished",
				"deleted", result.Deleted,
				"flagged", result.Flagged)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("expire"),
		gocron.WithName("expire-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered expire sweep job", "hour", hour)
	return nil
}

// Start starts the scheduler.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop shuts the scheduler down and waits for running jobs.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}
