package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/process"
)

func TestRecomputeCtteUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	entry := func(t *testing.T, actorID uint) *process.LogEntry {
		t.Helper()
		id := actorID
		e, err := process.NewLogEntry(5, &id, membership.ProgressAMOK, "report", false, time.Now().UTC())
		require.NoError(t, err)
		return e
	}

	t.Run("recent approvers join, stale members leave", func(t *testing.T) {
		active := testAM(t, 7, 30, false, false)     // approved recently, not yet a member
		stale, err := process.ReconstructAM(8, 31, 5, true, false, false, true, time.Now().UTC())
		require.NoError(t, err)

		logRepo := &mockLogRepo{
			ListByProgressSinceFunc: func(_ context.Context, progress membership.Progress, since time.Time) ([]*process.LogEntry, error) {
				assert.Equal(t, membership.ProgressAMOK, progress)
				assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -CtteWindowDays), since, time.Minute)
				return []*process.LogEntry{entry(t, 30)}, nil
			},
		}
		var updated []*process.AM
		amRepo := &mockAMRepo{
			ListActiveFunc: func(_ context.Context) ([]*process.AM, error) {
				return []*process.AM{active, stale}, nil
			},
			UpdateFunc: func(_ context.Context, am *process.AM) error {
				updated = append(updated, am)
				return nil
			},
		}

		uc := NewRecomputeCtteUseCase(amRepo, logRepo, noopLogger{})

		result, err := uc.Execute(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Members)
		assert.Equal(t, 1, result.Demoted)
		assert.True(t, active.IsAMCtte())
		assert.False(t, stale.IsAMCtte())
		assert.Len(t, updated, 2)
	})

	t.Run("unchanged flags are not rewritten", func(t *testing.T) {
		member, err := process.ReconstructAM(7, 30, 5, true, false, false, true, time.Now().UTC())
		require.NoError(t, err)

		logRepo := &mockLogRepo{
			ListByProgressSinceFunc: func(_ context.Context, _ membership.Progress, _ time.Time) ([]*process.LogEntry, error) {
				return []*process.LogEntry{entry(t, 30)}, nil
			},
		}
		amRepo := &mockAMRepo{
			ListActiveFunc: func(_ context.Context) ([]*process.AM, error) {
				return []*process.AM{member}, nil
			},
			UpdateFunc: func(_ context.Context, _ *process.AM) error {
				t.Fatal("update called for an unchanged flag")
				return nil
			},
		}

		uc := NewRecomputeCtteUseCase(amRepo, logRepo, noopLogger{})

		result, err := uc.Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Members)
		assert.Equal(t, 0, result.Demoted)
	})

	t.Run("system entries carry no approver", func(t *testing.T) {
		system, err := process.NewLogEntry(5, nil, membership.ProgressAMOK, "imported", false, time.Now().UTC())
		require.NoError(t, err)
		candidate := testAM(t, 7, 30, false, false)

		logRepo := &mockLogRepo{
			ListByProgressSinceFunc: func(_ context.Context, _ membership.Progress, _ time.Time) ([]*process.LogEntry, error) {
				return []*process.LogEntry{system}, nil
			},
		}
		amRepo := &mockAMRepo{
			ListActiveFunc: func(_ context.Context) ([]*process.AM, error) {
				return []*process.AM{candidate}, nil
			},
		}

		uc := NewRecomputeCtteUseCase(amRepo, logRepo, noopLogger{})

		result, err := uc.Execute(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Members)
		assert.False(t, candidate.IsAMCtte())
	})
}
