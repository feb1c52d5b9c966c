package mappers

import (
	"fmt"
	"time"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	vo "nmqueue/internal/domain/person/valueobjects"
	"nmqueue/internal/infrastructure/persistence/models"
)

// PersonMapper handles the conversion between Person domain entities and persistence models.
type PersonMapper interface {
	// ToModel converts a person domain entity to a persistence model.
	ToModel(p *person.Person) *models.PersonModel

	// ToDomain converts a person persistence model to a domain entity.
	ToDomain(model *models.PersonModel) (*person.Person, error)
}

// PersonMapperImpl is the concrete implementation of PersonMapper.
type PersonMapperImpl struct{}

// NewPersonMapper creates a new PersonMapper.
func NewPersonMapper() PersonMapper {
	return &PersonMapperImpl{}
}

// ToModel converts a person domain entity to a persistence model.
func (m *PersonMapperImpl) ToModel(p *person.Person) *models.PersonModel {
	model := &models.PersonModel{
		ID:            p.ID(),
		CN:            nameString(p.GivenName()),
		MN:            nameString(p.MiddleName()),
		SN:            nameString(p.FamilyName()),
		Email:         p.Email().String(),
		UID:           p.UID(),
		Status:        p.Status().String(),
		StatusChanged: p.StatusChanged().UnixMilli(),
		FDComment:     p.FDComment(),
		PendingNonce:  p.PendingNonce(),
		CreatedAt:     p.CreatedAt().UnixMilli(),
	}

	if p.Fingerprint() != nil {
		fpr := p.Fingerprint().String()
		model.Fingerprint = &fpr
	}

	if p.Expires() != nil {
		expires := p.Expires().UnixMilli()
		model.Expires = &expires
	}

	return model
}

// ToDomain converts a person persistence model to a domain entity.
func (m *PersonMapperImpl) ToDomain(model *models.PersonModel) (*person.Person, error) {
	cn, err := vo.NewName(model.CN)
	if err != nil {
		return nil, fmt.Errorf("invalid given name on person %d: %w", model.ID, err)
	}

	var mn, sn *vo.Name
	if model.MN != "" {
		if mn, err = vo.NewName(model.MN); err != nil {
			return nil, fmt.Errorf("invalid middle name on person %d: %w", model.ID, err)
		}
	}
	if model.SN != "" {
		if sn, err = vo.NewName(model.SN); err != nil {
			return nil, fmt.Errorf("invalid family name on person %d: %w", model.ID, err)
		}
	}

	email, err := vo.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email on person %d: %w", model.ID, err)
	}

	var fpr *vo.Fingerprint
	if model.Fingerprint != nil {
		if fpr, err = vo.NewFingerprint(*model.Fingerprint); err != nil {
			return nil, fmt.Errorf("invalid fingerprint on person %d: %w", model.ID, err)
		}
	}

	var expires *time.Time
	if model.Expires != nil {
		t := time.UnixMilli(*model.Expires).UTC()
		expires = &t
	}

	return person.ReconstructPerson(
		model.ID,
		cn, mn, sn,
		email,
		model.UID,
		fpr,
		membership.Status(model.Status),
		time.UnixMilli(model.StatusChanged).UTC(),
		model.FDComment,
		time.UnixMilli(model.CreatedAt).UTC(),
		expires,
		model.PendingNonce,
	)
}

func nameString(n *vo.Name) string {
	if n == nil {
		return ""
	}
	return n.String()
}
