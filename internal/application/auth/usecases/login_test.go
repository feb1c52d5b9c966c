package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	vo "nmqueue/internal/domain/person/valueobjects"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

type mockPersonRepo struct {
	person.Repository
	GetByUIDFunc func(ctx context.Context, uid string) (*person.Person, error)
}

func (m *mockPersonRepo) GetByUID(ctx context.Context, uid string) (*person.Person, error) {
	return m.GetByUIDFunc(ctx, uid)
}

type mockAMRepo struct {
	process.AMRepository
	GetByPersonIDFunc func(ctx context.Context, personID uint) (*process.AM, error)
	UpdateFunc        func(ctx context.Context, am *process.AM) error
}

func (m *mockAMRepo) GetByPersonID(ctx context.Context, personID uint) (*process.AM, error) {
	return m.GetByPersonIDFunc(ctx, personID)
}

func (m *mockAMRepo) Update(ctx context.Context, am *process.AM) error {
	return m.UpdateFunc(ctx, am)
}

type stubHasher struct {
	verifyErr error
}

func (s *stubHasher) Hash(password string) (string, error) { return "hash:" + password, nil }
func (s *stubHasher) Verify(password, hash string) error   { return s.verifyErr }

type stubIssuer struct {
	token string
	err   error
}

func (s *stubIssuer) Generate(personID uint, uid string) (string, error) {
	return s.token, s.err
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any)           {}
func (noopLogger) Info(msg string, args ...any)            {}
func (noopLogger) Warn(msg string, args ...any)            {}
func (noopLogger) Error(msg string, args ...any)           {}
func (noopLogger) With(args ...any) logger.Interface       { return noopLogger{} }
func (noopLogger) Named(name string) logger.Interface      { return noopLogger{} }
func (noopLogger) Debugw(msg string, keysAndValues ...any) {}
func (noopLogger) Infow(msg string, keysAndValues ...any)  {}
func (noopLogger) Warnw(msg string, keysAndValues ...any)  {}
func (noopLogger) Errorw(msg string, keysAndValues ...any) {}

func managerPerson(t *testing.T, id uint, uid string) *person.Person {
	t.Helper()
	cn, err := vo.NewName("Test")
	require.NoError(t, err)
	email, err := vo.NewEmail(uid + "@example.org")
	require.NoError(t, err)
	p, err := person.ReconstructPerson(
		id, cn, nil, nil, email, &uid, nil,
		membership.StatusDeveloper, time.Now(), "", time.Now(), nil, nil,
	)
	require.NoError(t, err)
	return p
}

func managerRecord(t *testing.T, id, personID uint, hash string) *process.AM {
	t.Helper()
	am, err := process.ReconstructAM(id, personID, 3, true, false, false, false, time.Now())
	require.NoError(t, err)
	am.SetPasswordHash(hash)
	return am
}

func TestLoginIssuesToken(t *testing.T) {
	p := managerPerson(t, 5, "jdoe")
	am := managerRecord(t, 2, 5, "$2a$12$hash")

	uc := NewLoginUseCase(
		&mockPersonRepo{GetByUIDFunc: func(ctx context.Context, uid string) (*person.Person, error) {
			assert.Equal(t, "jdoe", uid)
			return p, nil
		}},
		&mockAMRepo{GetByPersonIDFunc: func(ctx context.Context, personID uint) (*process.AM, error) {
			return am, nil
		}},
		&stubHasher{},
		&stubIssuer{token: "signed-token"},
		noopLogger{},
	)

	result, err := uc.Execute(context.Background(), LoginCommand{UID: "jdoe", Password: "correct horse battery"})
	require.NoError(t, err)
	assert.Equal(t, "signed-token", result.Token)
	assert.Equal(t, uint(5), result.PersonID)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	p := managerPerson(t, 5, "jdoe")
	am := managerRecord(t, 2, 5, "$2a$12$hash")

	uc := NewLoginUseCase(
		&mockPersonRepo{GetByUIDFunc: func(ctx context.Context, uid string) (*person.Person, error) {
			return p, nil
		}},
		&mockAMRepo{GetByPersonIDFunc: func(ctx context.Context, personID uint) (*process.AM, error) {
			return am, nil
		}},
		&stubHasher{verifyErr: assert.AnError},
		&stubIssuer{token: "signed-token"},
		noopLogger{},
	)

	_, err := uc.Execute(context.Background(), LoginCommand{UID: "jdoe", Password: "wrong"})
	assert.True(t, errors.IsAppError(err))
}

func TestLoginRejectsNonManager(t *testing.T) {
	p := managerPerson(t, 5, "jdoe")

	uc := NewLoginUseCase(
		&mockPersonRepo{GetByUIDFunc: func(ctx context.Context, uid string) (*person.Person, error) {
			return p, nil
		}},
		&mockAMRepo{GetByPersonIDFunc: func(ctx context.Context, personID uint) (*process.AM, error) {
			return nil, nil
		}},
		&stubHasher{},
		&stubIssuer{token: "signed-token"},
		noopLogger{},
	)

	_, err := uc.Execute(context.Background(), LoginCommand{UID: "jdoe", Password: "whatever passes"})
	assert.Error(t, err)
}

func TestLoginRejectsManagerWithoutPassword(t *testing.T) {
	p := managerPerson(t, 5, "jdoe")
	am := managerRecord(t, 2, 5, "")

	uc := NewLoginUseCase(
		&mockPersonRepo{GetByUIDFunc: func(ctx context.Context, uid string) (*person.Person, error) {
			return p, nil
		}},
		&mockAMRepo{GetByPersonIDFunc: func(ctx context.Context, personID uint) (*process.AM, error) {
			return am, nil
		}},
		&stubHasher{},
		&stubIssuer{token: "signed-token"},
		noopLogger{},
	)

	_, err := uc.Execute(context.Background(), LoginCommand{UID: "jdoe", Password: "whatever passes"})
	assert.Error(t, err)
}

func TestLoginUnknownUID(t *testing.T) {
	uc := NewLoginUseCase(
		&mockPersonRepo{GetByUIDFunc: func(ctx context.Context, uid string) (*person.Person, error) {
			return nil, nil
		}},
		&mockAMRepo{},
		&stubHasher{},
		&stubIssuer{},
		noopLogger{},
	)

	_, err := uc.Execute(context.Background(), LoginCommand{UID: "ghost", Password: "whatever passes"})
	assert.Error(t, err)
}
