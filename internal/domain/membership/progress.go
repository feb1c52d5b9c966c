package membership

import "fmt"

// Progress is the workflow stage of a single process.
type Progress string

const (
	ProgressAppNew   Progress = "app_new"  // applicant notified
	ProgressAppRcvd  Progress = "app_rcvd" // applicant replied
	ProgressAppHold  Progress = "app_hold" // on hold before the queue
	ProgressAdvRcvd  Progress = "adv_rcvd" // advocacies received
	ProgressAppOK    Progress = "app_ok"   // advocacies approved
	ProgressAMRcvd   Progress = "am_rcvd"  // manager assignment pending
	ProgressAM       Progress = "am"       // manager assigned
	ProgressAMHold   Progress = "am_hold"  // on hold with the manager
	ProgressAMOK     Progress = "am_ok"    // manager approved
	ProgressFDHold   Progress = "fd_hold"  // on hold with front desk
	ProgressFDOK     Progress = "fd_ok"    // front desk approved
	ProgressDAMHold  Progress = "dam_hold" // on hold with DAM
	ProgressDAMOK    Progress = "dam_ok"   // DAM approved
	ProgressDone     Progress = "done"     // completed
	ProgressCanceled Progress = "canceled" // cancelled
)

// ProgressDescriptor carries the stable machine tag, human descriptions and
// the ordinal position used for timeline display.
type ProgressDescriptor struct {
	Tag     Progress
	Short   string
	Long    string
	Ordinal int

	// Hold marks the unusual states rendered out of band on the timeline.
	Hold bool
}

var progressSeq = []ProgressDescriptor{
	{ProgressAppNew, "Notified", "Applicant asked to confirm the application", 0, false},
	{ProgressAppRcvd, "Replied", "Applicant confirmed the application", 1, false},
	{ProgressAppHold, "App hold", "On hold before entering the queue", 2, true},
	{ProgressAdvRcvd, "Adv ok", "Advocacies received", 3, false},
	{ProgressAppOK, "App ok", "Advocacies approved, waiting in the queue", 4, false},
	{ProgressAMRcvd, "AM queue", "Waiting for a manager to be assigned", 5, false},
	{ProgressAM, "AM", "Manager assigned and working", 6, false},
	{ProgressAMHold, "AM hold", "On hold with the manager", 7, true},
	{ProgressAMOK, "AM ok", "Manager approved", 8, false},
	{ProgressFDHold, "FD hold", "On hold with front desk", 9, true},
	{ProgressFDOK, "FD ok", "Front desk approved", 10, false},
	{ProgressDAMHold, "DAM hold", "On hold with DAM", 11, true},
	{ProgressDAMOK, "DAM ok", "DAM approved", 12, false},
	{ProgressDone, "Done", "Process completed", 13, false},
	{ProgressCanceled, "Canceled", "Process canceled", 14, false},
}

var progressByTag = func() map[Progress]ProgressDescriptor {
	m := make(map[Progress]ProgressDescriptor, len(progressSeq))
	for _, d := range progressSeq {
		m[d.Tag] = d
	}
	return m
}()

// AllProgress returns the progress taxonomy in ordinal order.
func AllProgress() []ProgressDescriptor {
	out := make([]ProgressDescriptor, len(progressSeq))
	copy(out, progressSeq)
	return out
}

func (p Progress) String() string {
	return string(p)
}

func (p Progress) IsValid() bool {
	_, ok := progressByTag[p]
	return ok
}

func (p Progress) Descriptor() ProgressDescriptor {
	return progressByTag[p]
}

func (p Progress) Ordinal() int {
	return progressByTag[p].Ordinal
}

// IsTerminal reports whether the process is immutable except through the
// explicit un-cancel administrative path.
func (p Progress) IsTerminal() bool {
	return p == ProgressDone || p == ProgressCanceled
}

// IsHold reports whether this is one of the unusual hold states.
func (p Progress) IsHold() bool {
	return progressByTag[p].Hold
}

// ManagerControlled reports whether the process is still in the range where
// the assigned manager keeps the manage capability. Once progress reaches
// front desk or later, the front desk and DAM have taken over.
func (p Progress) ManagerControlled() bool {
	return p.IsValid() && p.Ordinal() < ProgressFDHold.Ordinal()
}

// NewProgress parses a stored progress tag, rejecting values outside the
// closed set.
func NewProgress(s string) (Progress, error) {
	p := Progress(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid progress: %q", s)
	}
	return p, nil
}
