package usecases

import (
	"context"
	"strconv"

	personusecases "nmqueue/internal/application/person/usecases"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
)

// LookupProcess resolves a free-form key to a process: a numeric key is a
// process id, anything else resolves through the person lookup heuristic to
// that person's active process, falling back to their most recent one.
func LookupProcess(
	ctx context.Context,
	processRepo process.Repository,
	personRepo person.Repository,
	key string,
) (*process.Process, error) {
	if key == "" {
		return nil, errors.NewValidationError("process key is required")
	}

	if id, err := strconv.ParseUint(key, 10, 32); err == nil {
		proc, err := processRepo.GetByID(ctx, uint(id))
		if err != nil {
			return nil, errors.NewInternalError("process lookup failed")
		}
		if proc == nil {
			return nil, errors.NewNotFoundError("process not found: " + key)
		}
		return proc, nil
	}

	p, err := personusecases.LookupPerson(ctx, personRepo, key)
	if err != nil {
		return nil, err
	}

	proc, err := processRepo.GetActiveByPersonID(ctx, p.ID())
	if err != nil {
		return nil, errors.NewInternalError("process lookup failed")
	}
	if proc != nil {
		return proc, nil
	}

	procs, err := processRepo.ListByPersonID(ctx, p.ID())
	if err != nil {
		return nil, errors.NewInternalError("process lookup failed")
	}
	if len(procs) == 0 {
		return nil, errors.NewNotFoundError("no process for person: " + key)
	}

	// ListByPersonID returns newest first.
	return procs[0], nil
}
