package usecases

import (
	"context"
	"time"

	"nmqueue/internal/domain/permission"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
	"nmqueue/internal/shared/services/markdown"
)

type GetTimelineCommand struct {
	ProcessID uint
	ViewerID  uint // zero = anonymous
}

// TimelineEntry is one log line of a process history, rendered for display.
type TimelineEntry struct {
	Progress    string
	Label       string
	Ordinal     int
	Unusual     bool // hold states sort with their band but read as detours
	LoggedAt    time.Time
	ChangedByID *uint
	MessageHTML string
	IsPublic    bool
}

type TimelineResult struct {
	ProcessID   uint
	PersonID    uint
	ApplyingFor string
	Progress    string
	IsActive    bool
	ArchiveKey  string
	Entries     []TimelineEntry
}

// GetTimelineUseCase builds the read-only history view of one process.
// Anonymous viewers and viewers without the audit capability see only the
// public entries; messages are rendered from markdown and sanitized.
type GetTimelineUseCase struct {
	processRepo process.Repository
	logRepo     process.LogRepository
	personRepo  person.Repository
	amRepo      process.AMRepository
	renderer    markdown.Service
	logger      logger.Interface
}

func NewGetTimelineUseCase(
	processRepo process.Repository,
	logRepo process.LogRepository,
	personRepo person.Repository,
	amRepo process.AMRepository,
	renderer markdown.Service,
	logger logger.Interface,
) *GetTimelineUseCase {
	return &GetTimelineUseCase{
		processRepo: processRepo,
		logRepo:     logRepo,
		personRepo:  personRepo,
		amRepo:      amRepo,
		renderer:    renderer,
		logger:      logger,
	}
}

func (uc *GetTimelineUseCase) Execute(ctx context.Context, cmd GetTimelineCommand) (*TimelineResult, error) {
	proc, err := uc.processRepo.GetByID(ctx, cmd.ProcessID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load process")
	}
	if proc == nil {
		return nil, errors.NewNotFoundError("process not found")
	}

	caps, err := uc.viewerCapabilities(ctx, cmd.ViewerID, proc)
	if err != nil {
		return nil, err
	}

	entries, err := uc.logRepo.ListByProcess(ctx, proc.ID())
	if err != nil {
		return nil, errors.NewInternalError("failed to load process history")
	}

	result := &TimelineResult{
		ProcessID:   proc.ID(),
		PersonID:    proc.PersonID(),
		ApplyingFor: proc.ApplyingFor().String(),
		Progress:    proc.Progress().String(),
		IsActive:    proc.IsActive(),
		ArchiveKey:  proc.ArchiveKey(),
	}

	seeAll := caps.Has(permission.CapViewLog)
	for _, entry := range entries {
		if !entry.IsPublic() && !seeAll {
			continue
		}
		result.Entries = append(result.Entries, uc.render(entry))
	}

	return result, nil
}

func (uc *GetTimelineUseCase) render(entry *process.LogEntry) TimelineEntry {
	html, err := uc.renderer.ToHTMLSanitized(entry.Message())
	if err != nil {
		// A malformed message must not hide the rest of the history.
		uc.logger.Warnw("failed to render log message",
			"log_id", entry.ID(), "error", err)
		html = ""
	}

	desc := entry.Progress().Descriptor()
	return TimelineEntry{
		Progress:    entry.Progress().String(),
		Label:       desc.Long,
		Ordinal:     desc.Ordinal,
		Unusual:     entry.Progress().IsHold(),
		LoggedAt:    entry.LoggedAt(),
		ChangedByID: entry.ChangedByID(),
		MessageHTML: html,
		IsPublic:    entry.IsPublic(),
	}
}

func (uc *GetTimelineUseCase) viewerCapabilities(ctx context.Context, viewerID uint, proc *process.Process) (permission.Capabilities, error) {
	subject, err := uc.personRepo.GetByID(ctx, proc.PersonID())
	if err != nil {
		return permission.None, errors.NewInternalError("failed to load applicant")
	}
	if subject == nil {
		return permission.None, errors.NewInternalError("process references a missing person")
	}

	view := permission.View{Subject: subject, ActiveProcess: proc}
	if viewerID != 0 {
		viewer, err := uc.personRepo.GetByID(ctx, viewerID)
		if err != nil {
			return permission.None, errors.NewInternalError("failed to load viewer")
		}
		view.Viewer = viewer

		if viewer != nil {
			am, err := uc.amRepo.GetByPersonID(ctx, viewerID)
			if err != nil {
				return permission.None, errors.NewInternalError("failed to load viewer AM record")
			}
			view.ViewerAM = am
		}
	}

	return permission.PermissionsOf(view), nil
}
