package usecases

import (
	"context"
	"time"

	"nmqueue/internal/domain/permission"
	"nmqueue/internal/domain/person"
	vo "nmqueue/internal/domain/person/valueobjects"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

type GetPersonCommand struct {
	Key      string // uid, fingerprint or email
	ViewerID uint   // zero = anonymous
}

// PersonView is the capability-filtered projection of a person. Fields the
// viewer may not see are left zero.
type PersonView struct {
	PersonID      uint
	FullName      string
	UID           *string
	Status        string
	StatusLabel   string
	StatusChanged time.Time
	Email         string // requires view_email
	Fingerprint   string // requires view_person
	FDComment     string // requires fd or dam
	Capabilities  []string
}

// GetPersonUseCase resolves a person and projects it through the viewer's
// capability set.
type GetPersonUseCase struct {
	personRepo  person.Repository
	processRepo process.Repository
	amRepo      process.AMRepository
	logger      logger.Interface
}

func NewGetPersonUseCase(
	personRepo person.Repository,
	processRepo process.Repository,
	amRepo process.AMRepository,
	logger logger.Interface,
) *GetPersonUseCase {
	return &GetPersonUseCase{
		personRepo:  personRepo,
		processRepo: processRepo,
		amRepo:      amRepo,
		logger:      logger,
	}
}

func (uc *GetPersonUseCase) Execute(ctx context.Context, cmd GetPersonCommand) (*PersonView, error) {
	subject, err := LookupPerson(ctx, uc.personRepo, cmd.Key)
	if err != nil {
		return nil, err
	}

	caps, err := uc.viewerCapabilities(ctx, cmd.ViewerID, subject)
	if err != nil {
		return nil, err
	}

	desc := subject.Status().Descriptor()
	view := &PersonView{
		PersonID:      subject.ID(),
		FullName:      subject.FullName(),
		UID:           subject.UID(),
		Status:        subject.Status().String(),
		StatusLabel:   desc.Long,
		StatusChanged: subject.StatusChanged(),
		Capabilities:  caps.Strings(),
	}

	if caps.Has(permission.CapViewEmail) {
		view.Email = subject.Email().String()
	}
	if caps.Has(permission.CapViewPerson) && subject.Fingerprint() != nil {
		view.Fingerprint = subject.Fingerprint().String()
	}
	if caps.Has(permission.CapFrontDesk) || caps.Has(permission.CapDAM) {
		view.FDComment = subject.FDComment()
	}

	return view, nil
}

func (uc *GetPersonUseCase) viewerCapabilities(ctx context.Context, viewerID uint, subject *person.Person) (permission.Capabilities, error) {
	view := permission.View{Subject: subject}

	if viewerID != 0 {
		viewer, err := uc.personRepo.GetByID(ctx, viewerID)
		if err != nil {
			return permission.None, errors.NewInternalError("failed to load viewer")
		}
		view.Viewer = viewer

		if viewer != nil {
			am, err := uc.amRepo.GetByPersonID(ctx, viewerID)
			if err != nil {
				return permission.None, errors.NewInternalError("failed to load viewer AM record")
			}
			view.ViewerAM = am
		}
	}

	active, err := uc.processRepo.GetActiveByPersonID(ctx, subject.ID())
	if err != nil {
		return permission.None, errors.NewInternalError("failed to load active process")
	}
	view.ActiveProcess = active

	return permission.PermissionsOf(view), nil
}

// LookupPerson resolves a free-form key: a long hex string is a fingerprint,
// an @ makes it an email, anything else is an account name.
func LookupPerson(ctx context.Context, repo person.Repository, key string) (*person.Person, error) {
	if key == "" {
		return nil, errors.NewValidationError("person key is required")
	}

	var (
		p   *person.Person
		err error
	)
	switch person.ClassifyLookupKey(key) {
	case person.LookupByFingerprint:
		p, err = repo.GetByFingerprint(ctx, vo.NormalizeFingerprint(key))
	case person.LookupByEmail:
		p, err = repo.GetByEmail(ctx, key)
	default:
		p, err = repo.GetByUID(ctx, key)
	}
	if err != nil {
		return nil, errors.NewInternalError("person lookup failed")
	}
	if p == nil {
		return nil, errors.NewNotFoundError("person not found: " + key)
	}
	return p, nil
}
