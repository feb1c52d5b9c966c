package usecases

import (
	"context"

	"nmqueue/internal/domain/process"
)

// Notifier is the notification collaborator invoked after every transition
// with the new log entry and the previous one. It decides from the pair of
// consecutive progress values whether an email is owed; the state machine
// only supplies the before/after pair. Failures are logged, never propagated
// to the caller.
type Notifier interface {
	OnTransition(ctx context.Context, newEntry, prevEntry *process.LogEntry) error
}

// TransactionRunner scopes a unit of work to one atomic transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ApplyTransitionExecutor interface {
	Execute(ctx context.Context, cmd ApplyTransitionCommand) (*ApplyTransitionResult, error)
}

type CreateProcessExecutor interface {
	Execute(ctx context.Context, cmd CreateProcessCommand) (*CreateProcessResult, error)
}

type ChangeStatusExecutor interface {
	Execute(ctx context.Context, cmd ChangeStatusCommand) (*ChangeStatusResult, error)
}

type AssignManagerExecutor interface {
	Execute(ctx context.Context, cmd AssignManagerCommand) (*AssignManagerResult, error)
}

type AddAdvocateExecutor interface {
	Execute(ctx context.Context, cmd AddAdvocateCommand) (*AddAdvocateResult, error)
}

type UncancelExecutor interface {
	Execute(ctx context.Context, cmd UncancelCommand) (*UncancelResult, error)
}

type RecomputeCtteExecutor interface {
	Execute(ctx context.Context) (*RecomputeCtteResult, error)
}
