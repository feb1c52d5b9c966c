package process

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nmqueue/internal/domain/membership"
)

func newTestProcess(t *testing.T, progress membership.Progress) *Process {
	t.Helper()
	p, err := ReconstructProcess(
		1, 7,
		membership.StatusApplicant, membership.StatusDeveloper,
		progress,
		nil, nil,
		"enrico-20260301.1",
		time.Now().Add(-48*time.Hour),
	)
	require.NoError(t, err)
	return p
}

func TestNewProcessStartsAtAppNew(t *testing.T) {
	p, err := NewProcess(7, membership.StatusApplicant, membership.StatusDeveloper, "key-1")
	require.NoError(t, err)
	assert.Equal(t, membership.ProgressAppNew, p.Progress())
	assert.True(t, p.IsActive())
	assert.Nil(t, p.ManagerID())
}

func TestNewProcessRejectsNoopApplication(t *testing.T) {
	_, err := NewProcess(7, membership.StatusDeveloper, membership.StatusDeveloper, "key-1")
	assert.Error(t, err)
}

func TestReconstructRejectsUnknownProgress(t *testing.T) {
	_, err := ReconstructProcess(
		1, 7,
		membership.StatusApplicant, membership.StatusDeveloper,
		membership.Progress("weird"),
		nil, nil, "key-1", time.Now(),
	)
	assert.Error(t, err)
}

func TestAdvanceProgressDerivesIsActive(t *testing.T) {
	for _, d := range membership.AllProgress() {
		p := newTestProcess(t, membership.ProgressAM)
		require.NoError(t, p.AdvanceProgress(d.Tag))
		assert.Equal(t, !d.Tag.IsTerminal(), p.IsActive(), "progress %s", d.Tag)
	}
}

func TestAdvanceProgressTerminalIsImmutable(t *testing.T) {
	for _, terminal := range []membership.Progress{membership.ProgressDone, membership.ProgressCanceled} {
		p := newTestProcess(t, terminal)
		err := p.AdvanceProgress(membership.ProgressAM)
		assert.Error(t, err, "from %s", terminal)
	}
}

func TestAdvanceToAppOKReturnsProcessToPool(t *testing.T) {
	p := newTestProcess(t, membership.ProgressAM)
	require.NoError(t, p.AssignManager(3))
	require.NotNil(t, p.ManagerID())

	require.NoError(t, p.AdvanceProgress(membership.ProgressAppOK))
	assert.Nil(t, p.ManagerID(), "manager should be unassigned when returned to the pool")
}

func TestReactivateOnlyFromCanceled(t *testing.T) {
	p := newTestProcess(t, membership.ProgressCanceled)
	require.NoError(t, p.Reactivate(membership.ProgressAppOK))
	assert.True(t, p.IsActive())
	assert.Equal(t, membership.ProgressAppOK, p.Progress())

	done := newTestProcess(t, membership.ProgressDone)
	assert.Error(t, done.Reactivate(membership.ProgressAppOK))

	canceled := newTestProcess(t, membership.ProgressCanceled)
	assert.Error(t, canceled.Reactivate(membership.ProgressDone))
}

func TestAddAdvocate(t *testing.T) {
	p := newTestProcess(t, membership.ProgressAppRcvd)

	require.NoError(t, p.AddAdvocate(9))
	assert.True(t, p.HasAdvocate(9))

	assert.Error(t, p.AddAdvocate(9), "duplicate advocate")
	assert.Error(t, p.AddAdvocate(7), "self-advocacy")
	assert.Error(t, p.AddAdvocate(0))
}

func TestAMAdminDerivation(t *testing.T) {
	am, err := NewAM(3, 2)
	require.NoError(t, err)
	assert.False(t, am.IsAdmin())

	am.SetFrontDesk(true)
	assert.True(t, am.IsAdmin())

	am.SetFrontDesk(false)
	am.SetDAM(true)
	assert.True(t, am.IsAdmin())
}

func TestAMSlotAccounting(t *testing.T) {
	am, err := NewAM(3, 2)
	require.NoError(t, err)

	assert.True(t, am.HasFreeSlot(0))
	assert.True(t, am.HasFreeSlot(1))
	assert.False(t, am.HasFreeSlot(2))

	am.SetActive(false)
	assert.False(t, am.HasFreeSlot(0))
}
