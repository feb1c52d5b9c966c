// Package process models one application instance: a person applying to
// reach a target status, the managers working it, and its append-only audit
// trail.
package process

import (
	"fmt"
	"time"

	"nmqueue/internal/domain/membership"
)

// Process is one application instance for a person to reach a target status.
// Completed and canceled processes are retained as history, never deleted.
type Process struct {
	id          uint
	personID    uint
	applyingAs  membership.Status
	applyingFor membership.Status
	progress    membership.Progress
	managerID   *uint
	advocateIDs []uint
	isActive    bool
	archiveKey  string
	createdAt   time.Time
}

// NewProcess starts an application. Progress begins at applicant-notified.
func NewProcess(personID uint, applyingAs, applyingFor membership.Status, archiveKey string) (*Process, error) {
	if personID == 0 {
		return nil, fmt.Errorf("person ID is required")
	}
	if !applyingAs.IsValid() {
		return nil, fmt.Errorf("invalid applying_as status: %s", applyingAs)
	}
	if !applyingFor.IsValid() {
		return nil, fmt.Errorf("invalid applying_for status: %s", applyingFor)
	}
	if applyingAs == applyingFor {
		return nil, fmt.Errorf("process must apply for a different status than the current one")
	}
	if archiveKey == "" {
		return nil, fmt.Errorf("archive key is required")
	}

	return &Process{
		personID:    personID,
		applyingAs:  applyingAs,
		applyingFor: applyingFor,
		progress:    membership.ProgressAppNew,
		advocateIDs: []uint{},
		isActive:    true,
		archiveKey:  archiveKey,
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstructProcess rebuilds a process from persistence. The stored progress
// is validated against the closed taxonomy; an unknown value is an error the
// caller reports as an inconsistency.
func ReconstructProcess(
	id uint,
	personID uint,
	applyingAs, applyingFor membership.Status,
	progress membership.Progress,
	managerID *uint,
	advocateIDs []uint,
	archiveKey string,
	createdAt time.Time,
) (*Process, error) {
	if id == 0 {
		return nil, fmt.Errorf("process ID cannot be zero")
	}
	if !applyingAs.IsValid() || !applyingFor.IsValid() {
		return nil, fmt.Errorf("invalid status on process %d", id)
	}
	if !progress.IsValid() {
		return nil, fmt.Errorf("invalid progress on process %d: %q", id, progress)
	}
	if advocateIDs == nil {
		advocateIDs = []uint{}
	}

	return &Process{
		id:          id,
		personID:    personID,
		applyingAs:  applyingAs,
		applyingFor: applyingFor,
		progress:    progress,
		managerID:   managerID,
		advocateIDs: advocateIDs,
		isActive:    !progress.IsTerminal(),
		archiveKey:  archiveKey,
		createdAt:   createdAt,
	}, nil
}

func (p *Process) ID() uint                         { return p.id }
func (p *Process) PersonID() uint                   { return p.personID }
func (p *Process) ApplyingAs() membership.Status    { return p.applyingAs }
func (p *Process) ApplyingFor() membership.Status   { return p.applyingFor }
func (p *Process) Progress() membership.Progress    { return p.progress }
func (p *Process) ManagerID() *uint                 { return p.managerID }
func (p *Process) IsActive() bool                   { return p.isActive }
func (p *Process) ArchiveKey() string               { return p.archiveKey }
func (p *Process) CreatedAt() time.Time             { return p.createdAt }

func (p *Process) AdvocateIDs() []uint {
	out := make([]uint, len(p.advocateIDs))
	copy(out, p.advocateIDs)
	return out
}

func (p *Process) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("process ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("process ID cannot be zero")
	}
	p.id = id
	return nil
}

// AdvanceProgress moves the process to a new workflow stage. Terminal
// processes are immutable here; un-cancel is a distinct privileged path.
// Moving back into advocacies-approved returns the process to the pool,
// dropping the assigned manager.
func (p *Process) AdvanceProgress(newProgress membership.Progress) error {
	if !newProgress.IsValid() {
		return fmt.Errorf("invalid progress: %q", newProgress)
	}
	if p.progress.IsTerminal() {
		return fmt.Errorf("process is %s and cannot change progress", p.progress)
	}

	if newProgress == membership.ProgressAppOK && p.managerID != nil {
		p.managerID = nil
	}

	p.progress = newProgress
	p.isActive = !newProgress.IsTerminal()
	return nil
}

// Reactivate is the explicit un-cancel administrative path. The target must
// be a non-terminal stage.
func (p *Process) Reactivate(target membership.Progress) error {
	if p.progress != membership.ProgressCanceled {
		return fmt.Errorf("only canceled processes can be reactivated")
	}
	if !target.IsValid() || target.IsTerminal() {
		return fmt.Errorf("invalid reactivation target: %q", target)
	}
	p.progress = target
	p.isActive = true
	return nil
}

// AssignManager attaches a manager to the process.
func (p *Process) AssignManager(amID uint) error {
	if amID == 0 {
		return fmt.Errorf("manager ID cannot be zero")
	}
	if !p.isActive {
		return fmt.Errorf("cannot assign a manager to an inactive process")
	}
	p.managerID = &amID
	return nil
}

// UnassignManager returns the process to the pool.
func (p *Process) UnassignManager() {
	p.managerID = nil
}

// AddAdvocate records an endorsement. The caller verifies the advocate holds
// a developer status.
func (p *Process) AddAdvocate(personID uint) error {
	if personID == 0 {
		return fmt.Errorf("advocate ID cannot be zero")
	}
	if personID == p.personID {
		return fmt.Errorf("a person cannot advocate their own process")
	}
	for _, id := range p.advocateIDs {
		if id == personID {
			return fmt.Errorf("person %d already advocates this process", personID)
		}
	}
	p.advocateIDs = append(p.advocateIDs, personID)
	return nil
}

// HasAdvocate reports whether the person endorses this process.
func (p *Process) HasAdvocate(personID uint) bool {
	for _, id := range p.advocateIDs {
		if id == personID {
			return true
		}
	}
	return false
}
