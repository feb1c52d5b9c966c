package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
)

func TestAddAdvocateUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("developer endorsement is recorded publicly", func(t *testing.T) {
		advocate := testPerson(t, 30, membership.StatusDeveloper)
		proc := testProcess(t, 5, 10, membership.ProgressAppRcvd, nil)

		processRepo := &mockProcessRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*process.Process, error) { return proc, nil },
		}
		personRepo := &mockPersonRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*person.Person, error) { return advocate, nil },
		}
		logRepo := &mockLogRepo{}

		uc := NewAddAdvocateUseCase(processRepo, logRepo, personRepo, noopLogger{})

		result, err := uc.Execute(ctx, AddAdvocateCommand{
			ProcessID:  5,
			AdvocateID: 30,
			Message:    "sponsored several uploads, ready for NM",
		})
		require.NoError(t, err)

		assert.Equal(t, []uint{30}, result.Advocates)
		require.Len(t, logRepo.appended, 1)
		assert.True(t, logRepo.appended[0].IsPublic())
		require.NotNil(t, logRepo.appended[0].ChangedByID())
		assert.Equal(t, uint(30), *logRepo.appended[0].ChangedByID())
	})

	t.Run("non-developer cannot advocate", func(t *testing.T) {
		dm := testPerson(t, 30, membership.StatusMaintainer)
		proc := testProcess(t, 5, 10, membership.ProgressAppRcvd, nil)

		processRepo := &mockProcessRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*process.Process, error) { return proc, nil },
		}
		personRepo := &mockPersonRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*person.Person, error) { return dm, nil },
		}

		uc := NewAddAdvocateUseCase(processRepo, &mockLogRepo{}, personRepo, noopLogger{})

		_, err := uc.Execute(ctx, AddAdvocateCommand{ProcessID: 5, AdvocateID: 30, Message: "x"})
		require.Error(t, err)
		assert.True(t, errors.IsPermissionDeniedError(err))
	})

	t.Run("duplicate endorsement is a conflict", func(t *testing.T) {
		advocate := testPerson(t, 30, membership.StatusDeveloper)
		proc := testProcess(t, 5, 10, membership.ProgressAppRcvd, nil)
		require.NoError(t, proc.AddAdvocate(30))

		processRepo := &mockProcessRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*process.Process, error) { return proc, nil },
		}
		personRepo := &mockPersonRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*person.Person, error) { return advocate, nil },
		}

		uc := NewAddAdvocateUseCase(processRepo, &mockLogRepo{}, personRepo, noopLogger{})

		_, err := uc.Execute(ctx, AddAdvocateCommand{ProcessID: 5, AdvocateID: 30, Message: "again"})
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))
	})

	t.Run("inactive process cannot be advocated", func(t *testing.T) {
		proc := testProcess(t, 5, 10, membership.ProgressDone, nil)

		processRepo := &mockProcessRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*process.Process, error) { return proc, nil },
		}

		uc := NewAddAdvocateUseCase(processRepo, &mockLogRepo{}, &mockPersonRepo{}, noopLogger{})

		_, err := uc.Execute(ctx, AddAdvocateCommand{ProcessID: 5, AdvocateID: 30, Message: "late"})
		require.Error(t, err)
		assert.True(t, errors.IsInvalidTransitionError(err))
	})
}
