// Package membership defines the closed taxonomies of person statuses,
// process progress codes, and keyring tiers. Both enumerations are closed
// sets: any value outside them observed in stored data is a reportable
// inconsistency, never silently accepted.
package membership

import "fmt"

// Status is a person's standing in the project.
type Status string

const (
	StatusApplicant        Status = "mm"    // unconfirmed applicant
	StatusApplicantGA      Status = "mm_ga" // unconfirmed applicant with guest account
	StatusMaintainer       Status = "dm"    // Debian Maintainer
	StatusMaintainerGA     Status = "dm_ga" // Debian Maintainer with guest account
	StatusDeveloper        Status = "dd_u"  // Debian Developer, uploading
	StatusDeveloperNU      Status = "dd_nu" // Debian Developer, non-uploading
	StatusEmeritusDD       Status = "dd_e"  // emeritus Debian Developer
	StatusEmeritusDM       Status = "dm_e"  // emeritus Debian Maintainer
	StatusRemovedDD        Status = "dd_r"  // removed Debian Developer
	StatusRemovedDM        Status = "dm_r"  // removed Debian Maintainer
)

// StatusDescriptor carries the stable machine tag, human descriptions and the
// ordinal position used for timeline display.
type StatusDescriptor struct {
	Tag     Status
	Short   string
	Long    string
	Ordinal int
}

// statusSeq is the authoritative ordering of the status taxonomy. Built once
// at process start, immutable thereafter.
var statusSeq = []StatusDescriptor{
	{StatusApplicant, "Applicant", "Applicant with no account yet", 0},
	{StatusApplicantGA, "Applicant (guest)", "Applicant with a guest account", 1},
	{StatusMaintainer, "DM", "Debian Maintainer", 2},
	{StatusMaintainerGA, "DM (guest)", "Debian Maintainer with a guest account", 3},
	{StatusDeveloper, "DD, upl.", "Debian Developer, uploading", 4},
	{StatusDeveloperNU, "DD, non-upl.", "Debian Developer, non-uploading", 5},
	{StatusEmeritusDD, "DD, emeritus", "Debian Developer, emeritus", 6},
	{StatusEmeritusDM, "DM, emeritus", "Debian Maintainer, emeritus", 7},
	{StatusRemovedDD, "DD, removed", "Debian Developer, removed", 8},
	{StatusRemovedDM, "DM, removed", "Debian Maintainer, removed", 9},
}

var statusByTag = func() map[Status]StatusDescriptor {
	m := make(map[Status]StatusDescriptor, len(statusSeq))
	for _, d := range statusSeq {
		m[d.Tag] = d
	}
	return m
}()

// AllStatuses returns the status taxonomy in ordinal order.
func AllStatuses() []StatusDescriptor {
	out := make([]StatusDescriptor, len(statusSeq))
	copy(out, statusSeq)
	return out
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := statusByTag[s]
	return ok
}

// Descriptor returns the taxonomy entry for this status. The zero descriptor
// is returned for unknown tags; callers must check IsValid first.
func (s Status) Descriptor() StatusDescriptor {
	return statusByTag[s]
}

func (s Status) Ordinal() int {
	return statusByTag[s].Ordinal
}

// IsApplicantTier reports whether self-edit of identity fields is still
// allowed. Once promoted past these tiers, LDAP and the keyrings become
// authoritative.
func (s Status) IsApplicantTier() bool {
	return s == StatusApplicant || s == StatusApplicantGA
}

// IsDeveloper reports whether the status qualifies to advocate an applicant.
func (s Status) IsDeveloper() bool {
	return s == StatusDeveloper || s == StatusDeveloperNU
}

// IsMaintainerTier reports whether the status is a Debian Maintainer role,
// used by the archive cross-check.
func (s Status) IsMaintainerTier() bool {
	return s == StatusMaintainer || s == StatusMaintainerGA
}

// NewStatus parses a stored status tag, rejecting values outside the closed
// set.
func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid status: %q", s)
	}
	return st, nil
}
