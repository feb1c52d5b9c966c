package usecases

import (
	"context"

	"nmqueue/internal/domain/person"
	vo "nmqueue/internal/domain/person/valueobjects"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

type SetFingerprintCommand struct {
	PersonKey   string // uid, fingerprint or email
	Fingerprint string
}

// SetFingerprintUseCase records a key change, typically after the applicant
// replaces a lost or retired key.
type SetFingerprintUseCase struct {
	personRepo person.Repository
	logger     logger.Interface
}

func NewSetFingerprintUseCase(personRepo person.Repository, logger logger.Interface) *SetFingerprintUseCase {
	return &SetFingerprintUseCase{personRepo: personRepo, logger: logger}
}

func (uc *SetFingerprintUseCase) Execute(ctx context.Context, cmd SetFingerprintCommand) error {
	p, err := LookupPerson(ctx, uc.personRepo, cmd.PersonKey)
	if err != nil {
		return err
	}

	fpr, err := vo.NewFingerprint(cmd.Fingerprint)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}

	holder, err := uc.personRepo.GetByFingerprint(ctx, fpr.String())
	if err != nil {
		return errors.NewInternalError("failed to check fingerprint uniqueness")
	}
	if holder != nil && holder.ID() != p.ID() {
		return errors.NewConflictError("fingerprint already belongs to another person")
	}

	p.SetFingerprint(fpr)
	if err := uc.personRepo.Update(ctx, p); err != nil {
		uc.logger.Errorw("failed to update fingerprint", "person_id", p.ID(), "error", err)
		return errors.NewInternalError("failed to update fingerprint")
	}

	uc.logger.Infow("fingerprint updated", "person_id", p.ID(), "fingerprint", fpr.String())
	return nil
}
