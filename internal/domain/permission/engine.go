package permission

import (
	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
)

// View carries everything the engine needs to evaluate one viewer against
// one subject. ActiveProcess is the subject's active process, nil when none
// exists; ViewerAM is nil for viewers without a manager record.
type View struct {
	Subject       *person.Person
	Viewer        *person.Person // nil = anonymous
	ViewerAM      *process.AM
	ActiveProcess *process.Process
}

// PermissionsOf computes the viewer's capability set over the subject.
// Capabilities accumulate from the union of all matching rules.
func PermissionsOf(v View) Capabilities {
	if v.Subject == nil || v.Viewer == nil {
		// Anonymous viewers get nothing beyond the public listing.
		return None
	}

	// Front desk and DAM members hold the full set regardless of process
	// state.
	if v.ViewerAM != nil && v.ViewerAM.IsAdmin() {
		return All
	}

	caps := None

	if v.Viewer.ID() == v.Subject.ID() {
		caps = caps.With(CapViewPerson, CapViewLog, CapViewEmail)
		// Self-edit of identity fields is revoked once promoted: LDAP and
		// the keyrings become authoritative.
		if v.Subject.Status().IsApplicantTier() {
			caps = caps.With(CapEditPerson)
		}
	}

	if v.ActiveProcess != nil {
		if v.ActiveProcess.HasAdvocate(v.Viewer.ID()) {
			caps = caps.With(CapViewPerson, CapViewLog, CapViewEmail, CapAdvocate)
		}

		if v.ViewerAM != nil && v.ActiveProcess.ManagerID() != nil &&
			*v.ActiveProcess.ManagerID() == v.ViewerAM.ID() {
			caps = caps.With(CapViewPerson, CapViewLog, CapViewEmail)
			// The manager keeps manage only while the process is in the
			// manager-controlled range; afterwards front desk and DAM have
			// taken over even though the manager field is unchanged.
			if v.ActiveProcess.Progress().ManagerControlled() {
				caps = caps.With(CapManage)
			}
		}
	}

	return caps
}

// RequiredFor returns the alternative capability bits that authorize a
// transition into the target progress: holding any one of them is enough.
func RequiredFor(target membership.Progress) Capabilities {
	switch target {
	case membership.ProgressDAMHold, membership.ProgressDAMOK, membership.ProgressDone:
		return None.With(CapDAM)
	case membership.ProgressFDHold, membership.ProgressFDOK, membership.ProgressCanceled:
		return None.With(CapFrontDesk, CapDAM)
	default:
		// Manager-level stages; fd and dam hold manage as part of the full
		// set.
		return None.With(CapManage)
	}
}

// Authorizes reports whether the capability set covers a transition into the
// target progress.
func (c Capabilities) Authorizes(target membership.Progress) bool {
	return c&RequiredFor(target) != 0
}
