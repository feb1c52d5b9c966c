package person

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"nmqueue/internal/domain/membership"
	vo "nmqueue/internal/domain/person/valueobjects"
)

// uidRegex matches valid Debian account names.
var uidRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,31}$`)

// Person represents the identity aggregate root. Status and statusChanged are
// mutated only through the process state machine or administrative override.
type Person struct {
	id            uint
	cn            *vo.Name
	mn            *vo.Name
	sn            *vo.Name
	email         *vo.Email
	uid           *string
	fpr           *vo.Fingerprint
	status        membership.Status
	statusChanged time.Time
	fdComment     string
	createdAt     time.Time
	expires       *time.Time
	pendingNonce  *string
}

// NewPerson creates a person at first registration or import.
func NewPerson(cn, mn, sn *vo.Name, email *vo.Email, status membership.Status) (*Person, error) {
	if cn.IsEmpty() {
		return nil, fmt.Errorf("given name is required")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	now := time.Now().UTC()
	return &Person{
		cn:            cn,
		mn:            mn,
		sn:            sn,
		email:         email,
		status:        status,
		statusChanged: now,
		createdAt:     now,
	}, nil
}

// ReconstructPerson rebuilds a person from persistence.
func ReconstructPerson(
	id uint,
	cn, mn, sn *vo.Name,
	email *vo.Email,
	uid *string,
	fpr *vo.Fingerprint,
	status membership.Status,
	statusChanged time.Time,
	fdComment string,
	createdAt time.Time,
	expires *time.Time,
	pendingNonce *string,
) (*Person, error) {
	if id == 0 {
		return nil, fmt.Errorf("person ID cannot be zero")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	return &Person{
		id:            id,
		cn:            cn,
		mn:            mn,
		sn:            sn,
		email:         email,
		uid:           uid,
		fpr:           fpr,
		status:        status,
		statusChanged: statusChanged,
		fdComment:     fdComment,
		createdAt:     createdAt,
		expires:       expires,
		pendingNonce:  pendingNonce,
	}, nil
}

func (p *Person) ID() uint                        { return p.id }
func (p *Person) GivenName() *vo.Name             { return p.cn }
func (p *Person) MiddleName() *vo.Name            { return p.mn }
func (p *Person) FamilyName() *vo.Name            { return p.sn }
func (p *Person) Email() *vo.Email                { return p.email }
func (p *Person) UID() *string                    { return p.uid }
func (p *Person) Fingerprint() *vo.Fingerprint    { return p.fpr }
func (p *Person) Status() membership.Status       { return p.status }
func (p *Person) StatusChanged() time.Time        { return p.statusChanged }
func (p *Person) FDComment() string               { return p.fdComment }
func (p *Person) CreatedAt() time.Time            { return p.createdAt }
func (p *Person) Expires() *time.Time             { return p.expires }
func (p *Person) PendingNonce() *string           { return p.pendingNonce }

func (p *Person) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("person ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("person ID cannot be zero")
	}
	p.id = id
	return nil
}

// FullName joins the name components for display.
func (p *Person) FullName() string {
	parts := make([]string, 0, 3)
	for _, n := range []*vo.Name{p.cn, p.mn, p.sn} {
		if !n.IsEmpty() {
			parts = append(parts, n.String())
		}
	}
	return strings.Join(parts, " ")
}

// SetUID assigns the Debian account name, validated for format. The account
// name is set once an account is created in the directory.
func (p *Person) SetUID(uid string) error {
	if !uidRegex.MatchString(uid) {
		return fmt.Errorf("invalid account name: %q", uid)
	}
	p.uid = &uid
	return nil
}

// SetFingerprint attaches or replaces the OpenPGP fingerprint.
func (p *Person) SetFingerprint(fpr *vo.Fingerprint) {
	p.fpr = fpr
}

// ChangeStatus moves the person to a new status. Only the process state
// machine, reconciliation import, and administrative override call this.
func (p *Person) ChangeStatus(newStatus membership.Status, ts time.Time) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("invalid status: %s", newStatus)
	}
	p.status = newStatus
	p.statusChanged = ts.UTC()
	return nil
}

// UpdateEmail replaces the forwarding email. The directory reconciliation
// pass uses this as the one auto-applied correction: the LDAP address is
// considered more current than ours.
func (p *Person) UpdateEmail(email *vo.Email) error {
	if email == nil {
		return fmt.Errorf("email is required")
	}
	p.email = email
	return nil
}

func (p *Person) SetFDComment(comment string) {
	p.fdComment = comment
}

func (p *Person) SetExpires(t *time.Time) {
	p.expires = t
}

func (p *Person) SetPendingNonce(nonce *string) {
	p.pendingNonce = nonce
}

// IsExpired reports whether the provisional record has passed its expiry.
func (p *Person) IsExpired(now time.Time) bool {
	return p.expires != nil && p.expires.Before(now)
}

// CanBeDeleted reports whether an expired record may be removed: only
// records still in the lowest initial tier, and never one that had a
// process (checked by the caller against the process repository).
func (p *Person) CanBeDeleted() bool {
	return p.status == membership.StatusApplicant
}
