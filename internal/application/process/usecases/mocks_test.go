package usecases

import (
	"context"
	"time"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/logger"
)

var (
	_ process.Repository    = (*mockProcessRepo)(nil)
	_ process.LogRepository = (*mockLogRepo)(nil)
	_ process.AMRepository  = (*mockAMRepo)(nil)
)

type mockProcessRepo struct {
	CreateFunc               func(ctx context.Context, p *process.Process) error
	GetByIDFunc              func(ctx context.Context, id uint) (*process.Process, error)
	GetActiveByPersonIDFunc  func(ctx context.Context, personID uint) (*process.Process, error)
	ListByPersonIDFunc       func(ctx context.Context, personID uint) ([]*process.Process, error)
	ListActiveFunc           func(ctx context.Context) ([]*process.Process, error)
	CountActiveByManagerFunc func(ctx context.Context, amID uint) (int64, error)
	UpdateFunc               func(ctx context.Context, p *process.Process) error
}

func (m *mockProcessRepo) Create(ctx context.Context, p *process.Process) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return p.SetID(1)
}

func (m *mockProcessRepo) GetByID(ctx context.Context, id uint) (*process.Process, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockProcessRepo) GetActiveByPersonID(ctx context.Context, personID uint) (*process.Process, error) {
	if m.GetActiveByPersonIDFunc != nil {
		return m.GetActiveByPersonIDFunc(ctx, personID)
	}
	return nil, nil
}

func (m *mockProcessRepo) ListByPersonID(ctx context.Context, personID uint) ([]*process.Process, error) {
	if m.ListByPersonIDFunc != nil {
		return m.ListByPersonIDFunc(ctx, personID)
	}
	return nil, nil
}

func (m *mockProcessRepo) ListActive(ctx context.Context) ([]*process.Process, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockProcessRepo) CountActiveByManager(ctx context.Context, amID uint) (int64, error) {
	if m.CountActiveByManagerFunc != nil {
		return m.CountActiveByManagerFunc(ctx, amID)
	}
	return 0, nil
}

func (m *mockProcessRepo) Update(ctx context.Context, p *process.Process) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

type mockLogRepo struct {
	AppendFunc              func(ctx context.Context, entry *process.LogEntry) error
	ListByProcessFunc       func(ctx context.Context, processID uint) ([]*process.LogEntry, error)
	LastByProcessFunc       func(ctx context.Context, processID uint) (*process.LogEntry, error)
	ListByProgressSinceFunc func(ctx context.Context, progress membership.Progress, since time.Time) ([]*process.LogEntry, error)

	appended []*process.LogEntry
}

func (m *mockLogRepo) Append(ctx context.Context, entry *process.LogEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	m.appended = append(m.appended, entry)
	return nil
}

func (m *mockLogRepo) ListByProcess(ctx context.Context, processID uint) ([]*process.LogEntry, error) {
	if m.ListByProcessFunc != nil {
		return m.ListByProcessFunc(ctx, processID)
	}
	return m.appended, nil
}

func (m *mockLogRepo) LastByProcess(ctx context.Context, processID uint) (*process.LogEntry, error) {
	if m.LastByProcessFunc != nil {
		return m.LastByProcessFunc(ctx, processID)
	}
	if len(m.appended) == 0 {
		return nil, nil
	}
	return m.appended[len(m.appended)-1], nil
}

func (m *mockLogRepo) ListByProgressSince(ctx context.Context, progress membership.Progress, since time.Time) ([]*process.LogEntry, error) {
	if m.ListByProgressSinceFunc != nil {
		return m.ListByProgressSinceFunc(ctx, progress, since)
	}
	return nil, nil
}

type mockPersonRepo struct {
	person.Repository

	GetByIDFunc          func(ctx context.Context, id uint) (*person.Person, error)
	GetByUIDFunc         func(ctx context.Context, uid string) (*person.Person, error)
	GetByEmailFunc       func(ctx context.Context, email string) (*person.Person, error)
	GetByFingerprintFunc func(ctx context.Context, fpr string) (*person.Person, error)
	UpdateFunc           func(ctx context.Context, p *person.Person) error
}

func (m *mockPersonRepo) GetByID(ctx context.Context, id uint) (*person.Person, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPersonRepo) GetByUID(ctx context.Context, uid string) (*person.Person, error) {
	if m.GetByUIDFunc != nil {
		return m.GetByUIDFunc(ctx, uid)
	}
	return nil, nil
}

func (m *mockPersonRepo) GetByEmail(ctx context.Context, email string) (*person.Person, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockPersonRepo) GetByFingerprint(ctx context.Context, fpr string) (*person.Person, error) {
	if m.GetByFingerprintFunc != nil {
		return m.GetByFingerprintFunc(ctx, fpr)
	}
	return nil, nil
}

func (m *mockPersonRepo) Update(ctx context.Context, p *person.Person) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

type mockAMRepo struct {
	CreateFunc        func(ctx context.Context, am *process.AM) error
	GetByIDFunc       func(ctx context.Context, id uint) (*process.AM, error)
	GetByPersonIDFunc func(ctx context.Context, personID uint) (*process.AM, error)
	ListActiveFunc    func(ctx context.Context) ([]*process.AM, error)
	ListFunc          func(ctx context.Context) ([]*process.AM, error)
	UpdateFunc        func(ctx context.Context, am *process.AM) error
}

func (m *mockAMRepo) Create(ctx context.Context, am *process.AM) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, am)
	}
	return nil
}

func (m *mockAMRepo) GetByID(ctx context.Context, id uint) (*process.AM, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAMRepo) GetByPersonID(ctx context.Context, personID uint) (*process.AM, error) {
	if m.GetByPersonIDFunc != nil {
		return m.GetByPersonIDFunc(ctx, personID)
	}
	return nil, nil
}

func (m *mockAMRepo) ListActive(ctx context.Context) ([]*process.AM, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockAMRepo) List(ctx context.Context) ([]*process.AM, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockAMRepo) Update(ctx context.Context, am *process.AM) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, am)
	}
	return nil
}

// passthroughTx runs the unit of work without a database.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockNotifier struct {
	calls []notifierCall
	err   error
}

type notifierCall struct {
	newEntry  *process.LogEntry
	prevEntry *process.LogEntry
}

func (m *mockNotifier) OnTransition(ctx context.Context, newEntry, prevEntry *process.LogEntry) error {
	m.calls = append(m.calls, notifierCall{newEntry: newEntry, prevEntry: prevEntry})
	return m.err
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any)        {}
func (noopLogger) Info(string, ...any)         {}
func (noopLogger) Warn(string, ...any)         {}
func (noopLogger) Error(string, ...any)        {}
func (l noopLogger) With(...any) logger.Interface  { return l }
func (l noopLogger) Named(string) logger.Interface { return l }
func (noopLogger) Debugw(string, ...any)       {}
func (noopLogger) Infow(string, ...any)        {}
func (noopLogger) Warnw(string, ...any)        {}
func (noopLogger) Errorw(string, ...any)       {}
