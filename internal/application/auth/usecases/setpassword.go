package usecases

import (
	"context"
	"unicode/utf8"

	personusecases "nmqueue/internal/application/person/usecases"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

const minPasswordLen = 12

type SetPasswordCommand struct {
	PersonKey string // uid, email or fingerprint of the manager
	Password  string
}

// SetPasswordUseCase sets a manager's login password. Invoked from the
// operator CLI; there is no self-service password flow.
type SetPasswordUseCase struct {
	personRepo person.Repository
	amRepo     process.AMRepository
	hasher     PasswordHasher
	logger     logger.Interface
}

func NewSetPasswordUseCase(
	personRepo person.Repository,
	amRepo process.AMRepository,
	hasher PasswordHasher,
	logger logger.Interface,
) *SetPasswordUseCase {
	return &SetPasswordUseCase{
		personRepo: personRepo,
		amRepo:     amRepo,
		hasher:     hasher,
		logger:     logger,
	}
}

func (uc *SetPasswordUseCase) Execute(ctx context.Context, cmd SetPasswordCommand) error {
	if utf8.RuneCountInString(cmd.Password) < minPasswordLen {
		return errors.NewValidationError("password must be at least 12 characters")
	}

	p, err := personusecases.LookupPerson(ctx, uc.personRepo, cmd.PersonKey)
	if err != nil {
		return err
	}
	if p == nil {
		return errors.NewNotFoundError("person not found")
	}

	am, err := uc.amRepo.GetByPersonID(ctx, p.ID())
	if err != nil {
		return errors.NewInternalError("failed to load manager record")
	}
	if am == nil {
		return errors.NewValidationError("person has no manager record, grant one first")
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		return errors.NewInternalError("failed to hash password")
	}

	am.SetPasswordHash(hash)
	if err := uc.amRepo.Update(ctx, am); err != nil {
		uc.logger.Errorw("failed to store password", "person_id", p.ID(), "error", err)
		return errors.NewInternalError("failed to store password")
	}

	uc.logger.Infow("manager password set", "person_id", p.ID())
	return nil
}
