package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/shared/errors"
)

func TestSetFingerprintUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	const fpr = "A4105B0A9F8497ECAB5F16838D5B478CF7FE4DAA"

	t.Run("records the new key", func(t *testing.T) {
		subject := testPerson(t, 10, membership.StatusApplicant)
		var updated *person.Person
		repo := &mockPersonRepo{
			GetByUIDFunc: func(_ context.Context, _ string) (*person.Person, error) { return subject, nil },
			UpdateFunc: func(_ context.Context, p *person.Person) error {
				updated = p
				return nil
			},
		}
		uc := NewSetFingerprintUseCase(repo, noopLogger{})

		err := uc.Execute(ctx, SetFingerprintCommand{PersonKey: "jdoe", Fingerprint: fpr})
		require.NoError(t, err)

		require.NotNil(t, updated)
		require.NotNil(t, updated.Fingerprint())
		assert.Equal(t, fpr, updated.Fingerprint().String())
	})

	t.Run("a key held by someone else is rejected", func(t *testing.T) {
		subject := testPerson(t, 10, membership.StatusApplicant)
		holder := testPerson(t, 11, membership.StatusDeveloper)
		repo := &mockPersonRepo{
			GetByUIDFunc: func(_ context.Context, _ string) (*person.Person, error) { return subject, nil },
			GetByFingerprintFunc: func(_ context.Context, _ string) (*person.Person, error) {
				return holder, nil
			},
		}
		uc := NewSetFingerprintUseCase(repo, noopLogger{})

		err := uc.Execute(ctx, SetFingerprintCommand{PersonKey: "jdoe", Fingerprint: fpr})
		assert.True(t, errors.IsConflictError(err))
	})

	t.Run("re-setting one's own key is idempotent", func(t *testing.T) {
		subject := testPerson(t, 10, membership.StatusApplicant)
		repo := &mockPersonRepo{
			GetByUIDFunc: func(_ context.Context, _ string) (*person.Person, error) { return subject, nil },
			GetByFingerprintFunc: func(_ context.Context, _ string) (*person.Person, error) {
				return subject, nil
			},
		}
		uc := NewSetFingerprintUseCase(repo, noopLogger{})

		err := uc.Execute(ctx, SetFingerprintCommand{PersonKey: "jdoe", Fingerprint: fpr})
		assert.NoError(t, err)
	})

	t.Run("malformed fingerprint", func(t *testing.T) {
		subject := testPerson(t, 10, membership.StatusApplicant)
		repo := &mockPersonRepo{
			GetByUIDFunc: func(_ context.Context, _ string) (*person.Person, error) { return subject, nil },
		}
		uc := NewSetFingerprintUseCase(repo, noopLogger{})

		err := uc.Execute(ctx, SetFingerprintCommand{PersonKey: "jdoe", Fingerprint: "not-hex"})
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("unknown person", func(t *testing.T) {
		uc := NewSetFingerprintUseCase(&mockPersonRepo{}, noopLogger{})
		err := uc.Execute(ctx, SetFingerprintCommand{PersonKey: "ghost", Fingerprint: fpr})
		assert.True(t, errors.IsNotFoundError(err))
	})
}
