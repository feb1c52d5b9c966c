package usecases

import (
	"context"
	"time"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/logger"
)

type mockPersonRepo struct {
	CreateFunc            func(ctx context.Context, p *person.Person) error
	GetByIDFunc           func(ctx context.Context, id uint) (*person.Person, error)
	GetByUIDFunc          func(ctx context.Context, uid string) (*person.Person, error)
	GetByEmailFunc        func(ctx context.Context, email string) (*person.Person, error)
	GetByFingerprintFunc  func(ctx context.Context, fpr string) (*person.Person, error)
	UpdateFunc            func(ctx context.Context, p *person.Person) error
	DeleteFunc            func(ctx context.Context, id uint) error
	ListFunc              func(ctx context.Context, filter person.ListFilter) ([]*person.Person, int64, error)
	ListWithFPFunc        func(ctx context.Context) ([]*person.Person, error)
	ListWithUIDFunc       func(ctx context.Context) ([]*person.Person, error)
	ListByStatusFunc      func(ctx context.Context, statuses ...membership.Status) ([]*person.Person, error)
	ListExpiredBeforeFunc func(ctx context.Context, cutoff time.Time) ([]*person.Person, error)
	ExistsByEmailFunc     func(ctx context.Context, email string) (bool, error)
}

func (m *mockPersonRepo) Create(ctx context.Context, p *person.Person) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return p.SetID(1)
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

func (m *mockPersonRepo) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockPersonRepo) List(ctx context.Context, filter person.ListFilter) ([]*person.Person, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockPersonRepo) ListWithFingerprint(ctx context.Context) ([]*person.Person, error) {
	if m.ListWithFPFunc != nil {
		return m.ListWithFPFunc(ctx)
	}
	return nil, nil
}

func (m *mockPersonRepo) ListWithUID(ctx context.Context) ([]*person.Person, error) {
	if m.ListWithUIDFunc != nil {
		return m.ListWithUIDFunc(ctx)
	}
	return nil, nil
}

func (m *mockPersonRepo) ListByStatus(ctx context.Context, statuses ...membership.Status) ([]*person.Person, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, statuses...)
	}
	return nil, nil
}

func (m *mockPersonRepo) ListExpiredBefore(ctx context.Context, cutoff time.Time) ([]*person.Person, error) {
	if m.ListExpiredBeforeFunc != nil {
		return m.ListExpiredBeforeFunc(ctx, cutoff)
	}
	return nil, nil
}

func (m *mockPersonRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

type mockProcessRepo struct {
	process.Repository

	GetActiveByPersonIDFunc func(ctx context.Context, personID uint) (*process.Process, error)
	ListByPersonIDFunc      func(ctx context.Context, personID uint) ([]*process.Process, error)
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

type mockAMRepo struct {
	process.AMRepository

	GetByPersonIDFunc func(ctx context.Context, personID uint) (*process.AM, error)
}

func (m *mockAMRepo) GetByPersonID(ctx context.Context, personID uint) (*process.AM, error) {
	if m.GetByPersonIDFunc != nil {
		return m.GetByPersonIDFunc(ctx, personID)
	}
	return nil, nil
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any)            {}
func (noopLogger) Info(string, ...any)             {}
func (noopLogger) Warn(string, ...any)             {}
func (noopLogger) Error(string, ...any)            {}
func (l noopLogger) With(...any) logger.Interface  { return l }
func (l noopLogger) Named(string) logger.Interface { return l }
func (noopLogger) Debugw(string, ...any)           {}
func (noopLogger) Infow(string, ...any)            {}
func (noopLogger) Warnw(string, ...any)            {}
func (noopLogger) Errorw(string, ...any)           {}
