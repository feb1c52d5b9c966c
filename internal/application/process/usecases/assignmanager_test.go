package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
)

func TestAssignManagerUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	fd := testAM(t, 1, 20, true, false)
	manager := testAM(t, 7, 30, false, false)

	newRepos := func(proc *process.Process, assigned int64) (*mockProcessRepo, *mockAMRepo) {
		processRepo := &mockProcessRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*process.Process, error) { return proc, nil },
			CountActiveByManagerFunc: func(_ context.Context, _ uint) (int64, error) {
				return assigned, nil
			},
		}
		amRepo := &mockAMRepo{
			GetByPersonIDFunc: func(_ context.Context, personID uint) (*process.AM, error) {
				if personID == 20 {
					return fd, nil
				}
				return nil, nil
			},
			GetByIDFunc: func(_ context.Context, _ uint) (*process.AM, error) { return manager, nil },
		}
		return processRepo, amRepo
	}

	t.Run("front desk assigns a manager with free slots", func(t *testing.T) {
		proc := testProcess(t, 5, 10, membership.ProgressAMRcvd, nil)
		processRepo, amRepo := newRepos(proc, 2)
		logRepo := &mockLogRepo{}

		uc := NewAssignManagerUseCase(processRepo, logRepo, &mockPersonRepo{}, amRepo, noopLogger{})

		result, err := uc.Execute(ctx, AssignManagerCommand{ProcessID: 5, AMID: 7, ActorID: 20})
		require.NoError(t, err)

		assert.Equal(t, "am", result.Progress)
		require.NotNil(t, proc.ManagerID())
		assert.Equal(t, uint(7), *proc.ManagerID())
		require.Len(t, logRepo.appended, 1)
	})

	t.Run("full manager is rejected", func(t *testing.T) {
		proc := testProcess(t, 5, 10, membership.ProgressAMRcvd, nil)
		processRepo, amRepo := newRepos(proc, 5)

		uc := NewAssignManagerUseCase(processRepo, &mockLogRepo{}, &mockPersonRepo{}, amRepo, noopLogger{})

		_, err := uc.Execute(ctx, AssignManagerCommand{ProcessID: 5, AMID: 7, ActorID: 20})
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))
		assert.Nil(t, proc.ManagerID())
	})

	t.Run("non-admin actor is denied", func(t *testing.T) {
		proc := testProcess(t, 5, 10, membership.ProgressAMRcvd, nil)
		processRepo, amRepo := newRepos(proc, 0)

		uc := NewAssignManagerUseCase(processRepo, &mockLogRepo{}, &mockPersonRepo{}, amRepo, noopLogger{})

		_, err := uc.Execute(ctx, AssignManagerCommand{ProcessID: 5, AMID: 7, ActorID: 30})
		require.Error(t, err)
		assert.True(t, errors.IsPermissionDeniedError(err))
	})

	t.Run("inactive process cannot take a manager", func(t *testing.T) {
		proc := testProcess(t, 5, 10, membership.ProgressCanceled, nil)
		processRepo, amRepo := newRepos(proc, 0)

		uc := NewAssignManagerUseCase(processRepo, &mockLogRepo{}, &mockPersonRepo{}, amRepo, noopLogger{})

		_, err := uc.Execute(ctx, AssignManagerCommand{ProcessID: 5, AMID: 7, ActorID: 20})
		require.Error(t, err)
		assert.True(t, errors.IsInvalidTransitionError(err))
	})
}
