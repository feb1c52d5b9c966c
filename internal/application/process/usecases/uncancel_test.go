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

func TestUncancelUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	fd := testAM(t, 1, 20, true, false)
	plainAM := testAM(t, 7, 30, false, false)

	amRepo := &mockAMRepo{
		GetByPersonIDFunc: func(_ context.Context, personID uint) (*process.AM, error) {
			switch personID {
			case 20:
				return fd, nil
			case 30:
				return plainAM, nil
			}
			return nil, nil
		},
	}

	t.Run("reactivates to approved advocacies by default", func(t *testing.T) {
		proc := testProcess(t, 5, 10, membership.ProgressCanceled, nil)
		processRepo := &mockProcessRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*process.Process, error) { return proc, nil },
		}
		logRepo := &mockLogRepo{}

		uc := NewUncancelUseCase(processRepo, logRepo, amRepo, noopLogger{})

		result, err := uc.Execute(ctx, UncancelCommand{
			ProcessID: 5,
			ActorID:   20,
			Message:   "canceled by mistake",
		})
		require.NoError(t, err)

		assert.Equal(t, "app_ok", result.Progress)
		assert.True(t, proc.IsActive())
		require.Len(t, logRepo.appended, 1)
	})

	t.Run("explicit target is honored", func(t *testing.T) {
		proc := testProcess(t, 5, 10, membership.ProgressCanceled, nil)
		processRepo := &mockProcessRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*process.Process, error) { return proc, nil },
		}

		uc := NewUncancelUseCase(processRepo, &mockLogRepo{}, amRepo, noopLogger{})

		result, err := uc.Execute(ctx, UncancelCommand{
			ProcessID: 5,
			Target:    membership.ProgressAMRcvd,
			ActorID:   20,
			Message:   "back to the queue",
		})
		require.NoError(t, err)
		assert.Equal(t, "am_rcvd", result.Progress)
	})

	t.Run("completed process cannot be reactivated", func(t *testing.T) {
		proc := testProcess(t, 5, 10, membership.ProgressDone, nil)
		processRepo := &mockProcessRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*process.Process, error) { return proc, nil },
		}

		uc := NewUncancelUseCase(processRepo, &mockLogRepo{}, amRepo, noopLogger{})

		_, err := uc.Execute(ctx, UncancelCommand{ProcessID: 5, ActorID: 20, Message: "reopen"})
		require.Error(t, err)
		assert.True(t, errors.IsInvalidTransitionError(err))
	})

	t.Run("plain manager cannot un-cancel", func(t *testing.T) {
		proc := testProcess(t, 5, 10, membership.ProgressCanceled, nil)
		processRepo := &mockProcessRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*process.Process, error) { return proc, nil },
		}

		uc := NewUncancelUseCase(processRepo, &mockLogRepo{}, amRepo, noopLogger{})

		_, err := uc.Execute(ctx, UncancelCommand{ProcessID: 5, ActorID: 30, Message: "please"})
		require.Error(t, err)
		assert.True(t, errors.IsPermissionDeniedError(err))
	})
}
