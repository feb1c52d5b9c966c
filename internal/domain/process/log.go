package process

import (
	"fmt"
	"time"

	"nmqueue/internal/domain/membership"
)

// LogEntry is an append-only audit trail record. A process's current
// progress must equal its most recent entry's progress; divergence is
// reported by the consistency checker, never auto-corrected.
type LogEntry struct {
	id          uint
	processID   uint
	changedByID *uint // nil = system
	progress    membership.Progress
	loggedAt    time.Time
	message     string
	isPublic    bool
}

// NewLogEntry creates an audit entry for a progress change or annotation.
func NewLogEntry(processID uint, changedByID *uint, progress membership.Progress, message string, isPublic bool, loggedAt time.Time) (*LogEntry, error) {
	if processID == 0 {
		return nil, fmt.Errorf("process ID is required")
	}
	if !progress.IsValid() {
		return nil, fmt.Errorf("invalid progress: %q", progress)
	}
	if loggedAt.IsZero() {
		loggedAt = time.Now()
	}

	return &LogEntry{
		processID:   processID,
		changedByID: changedByID,
		progress:    progress,
		loggedAt:    loggedAt.UTC(),
		message:     message,
		isPublic:    isPublic,
	}, nil
}

// ReconstructLogEntry rebuilds an entry from persistence.
func ReconstructLogEntry(id, processID uint, changedByID *uint, progress membership.Progress, message string, isPublic bool, loggedAt time.Time) (*LogEntry, error) {
	if id == 0 {
		return nil, fmt.Errorf("log entry ID cannot be zero")
	}
	if !progress.IsValid() {
		return nil, fmt.Errorf("invalid progress on log entry %d: %q", id, progress)
	}

	return &LogEntry{
		id:          id,
		processID:   processID,
		changedByID: changedByID,
		progress:    progress,
		loggedAt:    loggedAt,
		message:     message,
		isPublic:    isPublic,
	}, nil
}

func (l *LogEntry) ID() uint                      { return l.id }
func (l *LogEntry) ProcessID() uint               { return l.processID }
func (l *LogEntry) ChangedByID() *uint            { return l.changedByID }
func (l *LogEntry) Progress() membership.Progress { return l.progress }
func (l *LogEntry) LoggedAt() time.Time           { return l.loggedAt }
func (l *LogEntry) Message() string               { return l.message }
func (l *LogEntry) IsPublic() bool                { return l.isPublic }

func (l *LogEntry) SetID(id uint) error {
	if l.id != 0 {
		return fmt.Errorf("log entry ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("log entry ID cannot be zero")
	}
	l.id = id
	return nil
}
