package process

import (
	"context"
	"time"

	"nmqueue/internal/domain/membership"
)

// Repository defines the interface for process data operations
type Repository interface {
	// Create creates a new process
	Create(ctx context.Context, p *Process) error

	// GetByID retrieves a process by internal ID
	GetByID(ctx context.Context, id uint) (*Process, error)

	// GetActiveByPersonID retrieves the person's active process, if any
	GetActiveByPersonID(ctx context.Context, personID uint) (*Process, error)

	// ListByPersonID retrieves all processes for a person, newest first
	ListByPersonID(ctx context.Context, personID uint) ([]*Process, error)

	// ListActive retrieves every active process
	ListActive(ctx context.Context) ([]*Process, error)

	// CountActiveByManager counts active processes assigned to a manager
	CountActiveByManager(ctx context.Context, amID uint) (int64, error)

	// Update updates an existing process
	Update(ctx context.Context, p *Process) error
}

// LogRepository provides access to the append-only audit trail. Entries are
// never mutated or deleted.
type LogRepository interface {
	// Append writes a new log entry
	Append(ctx context.Context, entry *LogEntry) error

	// ListByProcess retrieves a process's entries in chronological order
	ListByProcess(ctx context.Context, processID uint) ([]*LogEntry, error)

	// LastByProcess retrieves the most recent entry for a process
	LastByProcess(ctx context.Context, processID uint) (*LogEntry, error)

	// ListByProgressSince retrieves entries with the given progress logged
	// after the cutoff. Used by the committee recompute job.
	ListByProgressSince(ctx context.Context, progress membership.Progress, since time.Time) ([]*LogEntry, error)
}

// AMRepository defines the interface for manager capability records
type AMRepository interface {
	// Create creates a new AM record
	Create(ctx context.Context, am *AM) error

	// GetByID retrieves an AM record by internal ID
	GetByID(ctx context.Context, id uint) (*AM, error)

	// GetByPersonID retrieves the AM record for a person, if any
	GetByPersonID(ctx context.Context, personID uint) (*AM, error)

	// ListActive retrieves all active managers
	ListActive(ctx context.Context) ([]*AM, error)

	// List retrieves every manager record, active or not. Front desk and
	// account-manager flags outlive the active flag, so role derivation
	// reads the full set.
	List(ctx context.Context) ([]*AM, error)

	// Update updates an existing AM record
	Update(ctx context.Context, am *AM) error
}
