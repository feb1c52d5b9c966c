package process

import (
	"fmt"
	"time"
)

// AM is the manager capability record, a 1:1 extension of a person granting
// management capabilities.
type AM struct {
	id        uint
	personID  uint
	slots     int
	isAM      bool
	isFD      bool
	isDAM     bool
	isAMCtte  bool
	createdAt time.Time

	// passwordHash is the bcrypt hash for API logins. Empty until the
	// manager sets a password.
	passwordHash string
}

// NewAM grants manager capability to a person.
func NewAM(personID uint, slots int) (*AM, error) {
	if personID == 0 {
		return nil, fmt.Errorf("person ID is required")
	}
	if slots < 0 {
		return nil, fmt.Errorf("slot capacity cannot be negative")
	}

	return &AM{
		personID:  personID,
		slots:     slots,
		isAM:      true,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructAM rebuilds a manager record from persistence.
func ReconstructAM(id, personID uint, slots int, isAM, isFD, isDAM, isAMCtte bool, createdAt time.Time) (*AM, error) {
	if id == 0 {
		return nil, fmt.Errorf("AM ID cannot be zero")
	}
	return &AM{
		id:        id,
		personID:  personID,
		slots:     slots,
		isAM:      isAM,
		isFD:      isFD,
		isDAM:     isDAM,
		isAMCtte:  isAMCtte,
		createdAt: createdAt,
	}, nil
}

func (a *AM) ID() uint             { return a.id }
func (a *AM) PersonID() uint       { return a.personID }
func (a *AM) Slots() int           { return a.slots }
func (a *AM) IsAM() bool           { return a.isAM }
func (a *AM) IsFD() bool           { return a.isFD }
func (a *AM) IsDAM() bool          { return a.isDAM }
func (a *AM) IsAMCtte() bool       { return a.isAMCtte }
func (a *AM) CreatedAt() time.Time { return a.createdAt }
func (a *AM) PasswordHash() string { return a.passwordHash }

// IsAdmin holds by definition: front desk or DAM.
func (a *AM) IsAdmin() bool {
	return a.isFD || a.isDAM
}

func (a *AM) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("AM ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("AM ID cannot be zero")
	}
	a.id = id
	return nil
}

func (a *AM) SetSlots(slots int) error {
	if slots < 0 {
		return fmt.Errorf("slot capacity cannot be negative")
	}
	a.slots = slots
	return nil
}

func (a *AM) SetActive(active bool)       { a.isAM = active }
func (a *AM) SetFrontDesk(fd bool)        { a.isFD = fd }
func (a *AM) SetDAM(dam bool)             { a.isDAM = dam }
func (a *AM) SetPasswordHash(hash string) { a.passwordHash = hash }

// SetCtteMember is called only by the periodic recompute job; the flag is a
// derived cache, never hand-edited.
func (a *AM) SetCtteMember(member bool) { a.isAMCtte = member }

// HasFreeSlot reports whether the manager can take another applicant given
// the number of processes currently assigned.
func (a *AM) HasFreeSlot(assigned int) bool {
	return a.isAM && assigned < a.slots
}
