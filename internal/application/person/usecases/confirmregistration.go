package usecases

import (
	"context"

	"nmqueue/internal/domain/person"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

type ConfirmRegistrationCommand struct {
	PersonID uint
	Nonce    string
}

// ConfirmRegistrationUseCase clears the provisional markers once the
// applicant follows the emailed confirmation link.
type ConfirmRegistrationUseCase struct {
	personRepo person.Repository
	logger     logger.Interface
}

func NewConfirmRegistrationUseCase(personRepo person.Repository, logger logger.Interface) *ConfirmRegistrationUseCase {
	return &ConfirmRegistrationUseCase{personRepo: personRepo, logger: logger}
}

func (uc *ConfirmRegistrationUseCase) Execute(ctx context.Context, cmd ConfirmRegistrationCommand) error {
	if cmd.PersonID == 0 || cmd.Nonce == "" {
		return errors.NewValidationError("person ID and nonce are required")
	}

	p, err := uc.personRepo.GetByID(ctx, cmd.PersonID)
	if err != nil {
		return errors.NewInternalError("failed to load person")
	}
	if p == nil {
		return errors.NewNotFoundError("person not found")
	}

	if p.PendingNonce() == nil {
		return errors.NewConflictError("registration is already confirmed")
	}
	if *p.PendingNonce() != cmd.Nonce {
		return errors.NewPermissionDeniedError("confirmation nonce does not match")
	}

	p.SetPendingNonce(nil)
	p.SetExpires(nil)

	if err := uc.personRepo.Update(ctx, p); err != nil {
		uc.logger.Errorw("failed to confirm registration", "person_id", p.ID(), "error", err)
		return errors.NewInternalError("failed to confirm registration")
	}

	uc.logger.Infow("registration confirmed", "person_id", p.ID())
	return nil
}
