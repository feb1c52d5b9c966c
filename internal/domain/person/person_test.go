package person

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nmqueue/internal/domain/membership"
	vo "nmqueue/internal/domain/person/valueobjects"
)

func mustName(t *testing.T, s string) *vo.Name {
	t.Helper()
	n, err := vo.NewName(s)
	require.NoError(t, err)
	return n
}

func mustEmail(t *testing.T, s string) *vo.Email {
	t.Helper()
	e, err := vo.NewEmail(s)
	require.NoError(t, err)
	return e
}

func newTestPerson(t *testing.T, status membership.Status) *Person {
	t.Helper()
	p, err := NewPerson(
		mustName(t, "Enrico"), nil, mustName(t, "Zini"),
		mustEmail(t, "enrico@example.org"), status,
	)
	require.NoError(t, err)
	require.NoError(t, p.SetID(1))
	return p
}

func TestNewPersonRequiresNameAndEmail(t *testing.T) {
	_, err := NewPerson(nil, nil, nil, mustEmail(t, "a@example.org"), membership.StatusApplicant)
	assert.Error(t, err)

	_, err = NewPerson(mustName(t, "A"), nil, nil, nil, membership.StatusApplicant)
	assert.Error(t, err)

	_, err = NewPerson(mustName(t, "A"), nil, nil, mustEmail(t, "a@example.org"), membership.Status("bogus"))
	assert.Error(t, err)
}

func TestSetUIDValidatesFormat(t *testing.T) {
	p := newTestPerson(t, membership.StatusApplicant)

	require.NoError(t, p.SetUID("enrico"))
	assert.Equal(t, "enrico", *p.UID())

	assert.Error(t, p.SetUID("Enrico"))
	assert.Error(t, p.SetUID(""))
	assert.Error(t, p.SetUID("-lead"))
}

func TestChangeStatusRecordsTimestamp(t *testing.T) {
	p := newTestPerson(t, membership.StatusApplicant)
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, p.ChangeStatus(membership.StatusDeveloper, ts))
	assert.Equal(t, membership.StatusDeveloper, p.Status())
	assert.Equal(t, ts, p.StatusChanged())

	assert.Error(t, p.ChangeStatus(membership.Status("nope"), ts))
}

func TestExpiryAndDeletability(t *testing.T) {
	p := newTestPerson(t, membership.StatusApplicant)
	assert.False(t, p.IsExpired(time.Now()))

	past := time.Now().Add(-24 * time.Hour)
	p.SetExpires(&past)
	assert.True(t, p.IsExpired(time.Now()))
	assert.True(t, p.CanBeDeleted())

	dd := newTestPerson(t, membership.StatusDeveloper)
	dd.SetExpires(&past)
	assert.False(t, dd.CanBeDeleted())
}

func TestClassifyLookupKey(t *testing.T) {
	tests := []struct {
		key  string
		want LookupKeyKind
	}{
		{"enrico", LookupByUID},
		{"enrico@debian.org", LookupByEmail},
		{"A4105B0A9F8497ECAB5F16838D5B478CF7FE4DAA", LookupByFingerprint},
		// hex-looking but short stays a uid
		{"deadbeef", LookupByUID},
		// long but not hex stays a uid
		{"this-is-a-very-long-account-name-indeed", LookupByUID},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyLookupKey(tt.key), "key %q", tt.key)
	}
}

func TestFullName(t *testing.T) {
	p, err := NewPerson(
		mustName(t, "Ana"), mustName(t, "Beatriz"), mustName(t, "Guerrero López"),
		mustEmail(t, "ana@example.org"), membership.StatusApplicant,
	)
	require.NoError(t, err)
	assert.Equal(t, "Ana Beatriz Guerrero López", p.FullName())
}
