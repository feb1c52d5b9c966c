package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	vo "nmqueue/internal/domain/person/valueobjects"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

// ProvisionalTTL is how long an unconfirmed registration is kept before the
// expiry sweep may remove it.
const ProvisionalTTL = 30 * 24 * time.Hour

type CreatePersonCommand struct {
	GivenName   string
	MiddleName  string
	FamilyName  string
	Email       string
	Fingerprint string // optional
	Status      membership.Status
	Provisional bool // self-registration: gets a nonce and an expiry
}

type CreatePersonResult struct {
	PersonID uint
	Nonce    string // empty unless provisional
}

// CreatePersonUseCase registers a person, either provisionally through the
// public form or directly by an administrator or import.
type CreatePersonUseCase struct {
	personRepo person.Repository
	logger     logger.Interface
}

func NewCreatePersonUseCase(personRepo person.Repository, logger logger.Interface) *CreatePersonUseCase {
	return &CreatePersonUseCase{personRepo: personRepo, logger: logger}
}

func (uc *CreatePersonUseCase) Execute(ctx context.Context, cmd CreatePersonCommand) (*CreatePersonResult, error) {
	cn, err := vo.NewName(cmd.GivenName)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	var mn, sn *vo.Name
	if cmd.MiddleName != "" {
		if mn, err = vo.NewName(cmd.MiddleName); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if cmd.FamilyName != "" {
		if sn, err = vo.NewName(cmd.FamilyName); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	email, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	exists, err := uc.personRepo.ExistsByEmail(ctx, email.String())
	if err != nil {
		return nil, errors.NewInternalError("failed to check email uniqueness")
	}
	if exists {
		return nil, errors.NewConflictError("a person with this email already exists")
	}

	status := cmd.Status
	if status == "" {
		status = membership.StatusApplicant
	}

	p, err := person.NewPerson(cn, mn, sn, email, status)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if cmd.Fingerprint != "" {
		fpr, err := vo.NewFingerprint(cmd.Fingerprint)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		p.SetFingerprint(fpr)
	}

	var nonce string
	if cmd.Provisional {
		nonce = uuid.NewString()
		p.SetPendingNonce(&nonce)
		expires := time.Now().UTC().Add(ProvisionalTTL)
		p.SetExpires(&expires)
	}

	if err := uc.personRepo.Create(ctx, p); err != nil {
		uc.logger.Errorw("failed to create person", "email", email, "error", err)
		return nil, errors.NewInternalError("failed to create person")
	}

	uc.logger.Infow("person created",
		"person_id", p.ID(), "status", p.Status(), "provisional", cmd.Provisional)

	return &CreatePersonResult{PersonID: p.ID(), Nonce: nonce}, nil
}
