package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
)

type stubRenderer struct {
	err error
}

func (s stubRenderer) ToHTML(md string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "<p>" + md + "</p>", nil
}

func (s stubRenderer) Sanitize(htmlContent string) string {
	return htmlContent
}

func (s stubRenderer) ToHTMLSanitized(md string) (string, error) {
	return s.ToHTML(md)
}

func testLogEntry(t *testing.T, id, processID uint, progress membership.Progress, message string, isPublic bool) *process.LogEntry {
	t.Helper()
	actor := uint(20)
	entry, err := process.ReconstructLogEntry(id, processID, &actor, progress,
		message, isPublic, time.Now().UTC())
	require.NoError(t, err)
	return entry
}

func TestGetTimelineUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	subject := func(t *testing.T) *person.Person { return testPerson(t, 10, membership.StatusApplicant) }
	proc := func(t *testing.T) *process.Process {
		return testProcess(t, 5, 10, membership.ProgressAM, nil)
	}
	history := func(t *testing.T) []*process.LogEntry {
		return []*process.LogEntry{
			testLogEntry(t, 1, 5, membership.ProgressAppNew, "applied", true),
			testLogEntry(t, 2, 5, membership.ProgressAppHold, "id check pending", false),
			testLogEntry(t, 3, 5, membership.ProgressAM, "assigned", true),
		}
	}

	newUC := func(personRepo *mockPersonRepo, processRepo *mockProcessRepo,
		logRepo *mockLogRepo, amRepo *mockAMRepo, renderer stubRenderer) *GetTimelineUseCase {
		return NewGetTimelineUseCase(processRepo, logRepo, personRepo, amRepo, renderer, noopLogger{})
	}

	t.Run("anonymous viewers see only public entries", func(t *testing.T) {
		p := proc(t)
		personRepo := &mockPersonRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*person.Person, error) { return subject(t), nil },
		}
		processRepo := &mockProcessRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*process.Process, error) { return p, nil },
		}
		logRepo := &mockLogRepo{
			ListByProcessFunc: func(_ context.Context, _ uint) ([]*process.LogEntry, error) { return history(t), nil },
		}

		uc := newUC(personRepo, processRepo, logRepo, &mockAMRepo{}, stubRenderer{})
		result, err := uc.Execute(ctx, GetTimelineCommand{ProcessID: 5})
		require.NoError(t, err)

		require.Len(t, result.Entries, 2)
		assert.Equal(t, "app_new", result.Entries[0].Progress)
		assert.Equal(t, "am", result.Entries[1].Progress)
		assert.Equal(t, uint(10), result.PersonID)
		assert.True(t, result.IsActive)
	})

	t.Run("the applicant sees their own full history", func(t *testing.T) {
		subj := subject(t)
		p := proc(t)
		personRepo := &mockPersonRepo{
			GetByIDFunc: func(_ context.Context, id uint) (*person.Person, error) {
				if id == 10 {
					return subj, nil
				}
				return nil, nil
			},
		}
		processRepo := &mockProcessRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*process.Process, error) { return p, nil },
		}
		logRepo := &mockLogRepo{
			ListByProcessFunc: func(_ context.Context, _ uint) ([]*process.LogEntry, error) { return history(t), nil },
		}

		uc := newUC(personRepo, processRepo, logRepo, &mockAMRepo{}, stubRenderer{})
		result, err := uc.Execute(ctx, GetTimelineCommand{ProcessID: 5, ViewerID: 10})
		require.NoError(t, err)

		require.Len(t, result.Entries, 3)
		assert.False(t, result.Entries[1].IsPublic)
		assert.True(t, result.Entries[1].Unusual)
		assert.Equal(t, "<p>id check pending</p>", result.Entries[1].MessageHTML)
	})

	t.Run("front desk sees everything on any process", func(t *testing.T) {
		subj := subject(t)
		fd := testPerson(t, 40, membership.StatusDeveloper)
		fdAM := testAM(t, 3, 40, true, false)
		p := proc(t)
		personRepo := &mockPersonRepo{
			GetByIDFunc: func(_ context.Context, id uint) (*person.Person, error) {
				if id == 10 {
					return subj, nil
				}
				return fd, nil
			},
		}
		processRepo := &mockProcessRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*process.Process, error) { return p, nil },
		}
		logRepo := &mockLogRepo{
			ListByProcessFunc: func(_ context.Context, _ uint) ([]*process.LogEntry, error) { return history(t), nil },
		}
		amRepo := &mockAMRepo{
			GetByPersonIDFunc: func(_ context.Context, _ uint) (*process.AM, error) { return fdAM, nil },
		}

		uc := newUC(personRepo, processRepo, logRepo, amRepo, stubRenderer{})
		result, err := uc.Execute(ctx, GetTimelineCommand{ProcessID: 5, ViewerID: 40})
		require.NoError(t, err)
		assert.Len(t, result.Entries, 3)
	})

	t.Run("a render failure blanks the message but keeps the entry", func(t *testing.T) {
		p := proc(t)
		personRepo := &mockPersonRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*person.Person, error) { return subject(t), nil },
		}
		processRepo := &mockProcessRepo{
			GetByIDFunc: func(_ context.Context, _ uint) (*process.Process, error) { return p, nil },
		}
		logRepo := &mockLogRepo{
			ListByProcessFunc: func(_ context.Context, _ uint) ([]*process.LogEntry, error) {
				return []*process.LogEntry{testLogEntry(t, 1, 5, membership.ProgressAppNew, "applied", true)}, nil
			},
		}

		uc := newUC(personRepo, processRepo, logRepo, &mockAMRepo{},
			stubRenderer{err: fmt.Errorf("bad markup")})
		result, err := uc.Execute(ctx, GetTimelineCommand{ProcessID: 5})
		require.NoError(t, err)
		require.Len(t, result.Entries, 1)
		assert.Empty(t, result.Entries[0].MessageHTML)
	})

	t.Run("unknown process", func(t *testing.T) {
		uc := newUC(&mockPersonRepo{}, &mockProcessRepo{}, &mockLogRepo{}, &mockAMRepo{}, stubRenderer{})
		_, err := uc.Execute(ctx, GetTimelineCommand{ProcessID: 99})
		assert.True(t, errors.IsNotFoundError(err))
	})
}
