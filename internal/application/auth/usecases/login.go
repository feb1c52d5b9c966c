package usecases

import (
	"context"

	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

// PasswordHasher hashes and verifies login passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// TokenIssuer mints a signed API session token.
type TokenIssuer interface {
	Generate(personID uint, uid string) (string, error)
}

type LoginCommand struct {
	UID      string
	Password string
}

type LoginResult struct {
	Token    string
	PersonID uint
}

// LoginUseCase authenticates a manager by account name and password. Only
// people with a manager record and a set password can log in; applicants
// have no API credentials.
type LoginUseCase struct {
	personRepo person.Repository
	amRepo     process.AMRepository
	hasher     PasswordHasher
	issuer     TokenIssuer
	logger     logger.Interface
}

func NewLoginUseCase(
	personRepo person.Repository,
	amRepo process.AMRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		personRepo: personRepo,
		amRepo:     amRepo,
		hasher:     hasher,
		issuer:     issuer,
		logger:     logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if cmd.UID == "" || cmd.Password == "" {
		return nil, errors.NewValidationError("account name and password are required")
	}

	p, err := uc.personRepo.GetByUID(ctx, cmd.UID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load person")
	}
	if p == nil {
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}

	am, err := uc.amRepo.GetByPersonID(ctx, p.ID())
	if err != nil {
		return nil, errors.NewInternalError("failed to load manager record")
	}
	if am == nil || am.PasswordHash() == "" {
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}

	if err := uc.hasher.Verify(cmd.Password, am.PasswordHash()); err != nil {
		uc.logger.Warnw("failed login attempt", "uid", cmd.UID)
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}

	token, err := uc.issuer.Generate(p.ID(), cmd.UID)
	if err != nil {
		uc.logger.Errorw("failed to issue token", "uid", cmd.UID, "error", err)
		return nil, errors.NewInternalError("failed to issue token")
	}

	uc.logger.Infow("manager logged in", "uid", cmd.UID, "person_id", p.ID())
	return &LoginResult{Token: token, PersonID: p.ID()}, nil
}
