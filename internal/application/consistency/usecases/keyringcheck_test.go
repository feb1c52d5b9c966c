package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	vo "nmqueue/internal/domain/person/valueobjects"
)

const (
	fprDD      = "A4105B0A9F8497ECAB5F16838D5B478CF7FE4DAA"
	fprDM      = "B5216C1BAF9588FDBC6F27949E6C589DF8FF5EBB"
	fprUnknown = "C6327D2CBFA699FECD7F38A5AF7D69AEF9FF6FCC"
)

func makePerson(t *testing.T, id uint, uid, email, fpr string, status membership.Status) *person.Person {
	t.Helper()
	cn, err := vo.NewName("Test")
	require.NoError(t, err)
	e, err := vo.NewEmail(email)
	require.NoError(t, err)
	var uidPtr *string
	if uid != "" {
		uidPtr = &uid
	}
	var f *vo.Fingerprint
	if fpr != "" {
		f, err = vo.NewFingerprint(fpr)
		require.NoError(t, err)
	}
	p, err := person.ReconstructPerson(id, cn, nil, nil, e, uidPtr, f,
		status, time.Now().UTC(), "", time.Now().UTC(), nil, nil)
	require.NoError(t, err)
	return p
}

func tierSet(fprs ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(fprs))
	for _, f := range fprs {
		set[f] = struct{}{}
	}
	return set
}

func TestKeyringCheck_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("key in the wrong tier gets a suggested status", func(t *testing.T) {
		// Status says developer, key lives in the emeritus keyring.
		p := makePerson(t, 1, "jdoe", "jdoe@example.org", fprDD, membership.StatusDeveloper)
		keyring := &fakeKeyring{tiers: map[membership.KeyringTier]map[string]struct{}{
			membership.TierEmeritus: tierSet(fprDD),
		}}
		incRepo := newMemIncRepo()

		check := NewKeyringCheck(&mockPersonRepo{people: []*person.Person{p}}, keyring, incRepo, noopLogger{})
		report, err := check.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Findings)

		rec, err := incRepo.GetByEntity(ctx, consistency.KindPerson, "person/1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "dd_e", rec.Info.Extra["suggested_status"])
		assert.Contains(t, rec.Info.Extra["remediation"], "nm change-status jdoe dd_e")
	})

	t.Run("key in no keyring at all", func(t *testing.T) {
		p := makePerson(t, 1, "jdoe", "jdoe@example.org", fprDD, membership.StatusDeveloper)
		keyring := &fakeKeyring{tiers: map[membership.KeyringTier]map[string]struct{}{}}
		incRepo := newMemIncRepo()

		check := NewKeyringCheck(&mockPersonRepo{people: []*person.Person{p}}, keyring, incRepo, noopLogger{})
		report, err := check.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Findings)

		rec, _ := incRepo.GetByEntity(ctx, consistency.KindPerson, "person/1")
		require.NotNil(t, rec)
		assert.Contains(t, rec.Info.Log[0], "not in any keyring")
		assert.Empty(t, rec.Info.Extra)
	})

	t.Run("removed tier is exempt from the missing-key check", func(t *testing.T) {
		p := makePerson(t, 1, "jdoe", "jdoe@example.org", fprDD, membership.StatusRemovedDD)
		keyring := &fakeKeyring{tiers: map[membership.KeyringTier]map[string]struct{}{}}
		incRepo := newMemIncRepo()

		check := NewKeyringCheck(&mockPersonRepo{people: []*person.Person{p}}, keyring, incRepo, noopLogger{})
		report, err := check.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Findings)
	})

	t.Run("unknown keyring fingerprint gets candidate matches from user IDs", func(t *testing.T) {
		existing := makePerson(t, 2, "ada", "ada@example.org", "", membership.StatusDeveloper)
		keyring := &fakeKeyring{
			tiers: map[membership.KeyringTier]map[string]struct{}{
				membership.TierDDU: tierSet(fprUnknown),
			},
			userIDs: map[string][]string{
				fprUnknown: {"Ada Lovelace <ada@debian.org>"},
			},
		}
		incRepo := newMemIncRepo()

		check := NewKeyringCheck(&mockPersonRepo{people: []*person.Person{existing}}, keyring, incRepo, noopLogger{})
		report, err := check.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Findings)

		rec, _ := incRepo.GetByEntity(ctx, consistency.KindFingerprint, "fpr/"+fprUnknown)
		require.NotNil(t, rec)
		assert.Contains(t, rec.Info.Log[0], "unknown to us")
		assert.Contains(t, rec.Info.Extra["candidate_1"], "set-fingerprint ada")
	})

	t.Run("removed keyring is not cross-checked in reverse", func(t *testing.T) {
		keyring := &fakeKeyring{tiers: map[membership.KeyringTier]map[string]struct{}{
			membership.TierRemoved: tierSet(fprUnknown),
		}}
		incRepo := newMemIncRepo()

		check := NewKeyringCheck(&mockPersonRepo{}, keyring, incRepo, noopLogger{})
		report, err := check.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Findings)
	})

	t.Run("duplicate fingerprints are a finding, not fatal", func(t *testing.T) {
		a := makePerson(t, 1, "a", "a@example.org", fprDD, membership.StatusDeveloper)
		b := makePerson(t, 2, "b", "b@example.org", fprDD, membership.StatusDeveloper)
		keyring := &fakeKeyring{tiers: map[membership.KeyringTier]map[string]struct{}{
			membership.TierDDU: tierSet(fprDD),
		}}
		incRepo := newMemIncRepo()

		check := NewKeyringCheck(&mockPersonRepo{people: []*person.Person{a, b}}, keyring, incRepo, noopLogger{})
		report, err := check.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Findings)

		rec, _ := incRepo.GetByEntity(ctx, consistency.KindPerson, "person/2")
		require.NotNil(t, rec)
		assert.Contains(t, rec.Info.Log[0], "also recorded on person 1")
	})
}

func TestReconciliationIdempotence(t *testing.T) {
	ctx := context.Background()

	p := makePerson(t, 1, "jdoe", "jdoe@example.org", fprDD, membership.StatusDeveloper)
	keyring := &fakeKeyring{tiers: map[membership.KeyringTier]map[string]struct{}{
		membership.TierEmeritus: tierSet(fprDD),
		membership.TierDM:       tierSet(fprUnknown),
	}}
	incRepo := newMemIncRepo()
	check := NewKeyringCheck(&mockPersonRepo{people: []*person.Person{p}}, keyring, incRepo, noopLogger{})

	engine := NewRunReconciliationUseCase(incRepo, []Check{check}, noopLogger{})

	first, err := engine.Execute(ctx)
	require.NoError(t, err)
	firstRecords, err := incRepo.List(ctx, "")
	require.NoError(t, err)

	second, err := engine.Execute(ctx)
	require.NoError(t, err)
	secondRecords, err := incRepo.List(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, first.Findings, second.Findings)
	require.Len(t, secondRecords, len(firstRecords))
	for i := range firstRecords {
		assert.Equal(t, firstRecords[i].EntityKey(), secondRecords[i].EntityKey())
		assert.Equal(t, firstRecords[i].Info.Log, secondRecords[i].Info.Log)
		assert.Equal(t, firstRecords[i].Info.Extra, secondRecords[i].Info.Extra)
	}
}

func TestRunRebuildsStoreFromScratch(t *testing.T) {
	ctx := context.Background()

	incRepo := newMemIncRepo()
	archiveCheck := NewArchiveCheck(&mockPersonRepo{}, &fakeArchive{
		maintainers: map[string]consistency.ArchiveMaintainer{
			fprUnknown: {Email: "ghost@example.org", Name: "Ghost"},
		},
	}, incRepo, noopLogger{})
	keyringCheck := NewKeyringCheck(&mockPersonRepo{}, &fakeKeyring{
		tiers: map[membership.KeyringTier]map[string]struct{}{
			membership.TierDM: tierSet(fprDM),
		},
	}, incRepo, noopLogger{})

	full := NewRunReconciliationUseCase(incRepo, []Check{archiveCheck, keyringCheck}, noopLogger{})
	_, err := full.Execute(ctx)
	require.NoError(t, err)
	records, _ := incRepo.List(ctx, "")
	require.Len(t, records, 2)

	// A run over a subset of passes resets the whole store: records carry
	// no per-pass attribution, so only the executed pass repopulates.
	single := NewRunReconciliationUseCase(incRepo, []Check{keyringCheck}, noopLogger{})
	_, err = single.Execute(ctx)
	require.NoError(t, err)

	records, _ = incRepo.List(ctx, "")
	require.Len(t, records, 1)
	assert.Equal(t, "fpr/"+fprDM, records[0].EntityKey())
}

func TestEngineSkipsDeadSources(t *testing.T) {
	ctx := context.Background()

	incRepo := newMemIncRepo()
	dead := NewKeyringCheck(&mockPersonRepo{}, &fakeKeyring{err: assert.AnError}, incRepo, noopLogger{})
	alive := NewArchiveCheck(&mockPersonRepo{}, &fakeArchive{
		maintainers: map[string]consistency.ArchiveMaintainer{
			fprUnknown: {Email: "ghost@example.org", Name: "Ghost"},
		},
	}, incRepo, noopLogger{})

	engine := NewRunReconciliationUseCase(incRepo, []Check{dead, alive}, noopLogger{})

	result, err := engine.Execute(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"keyring"}, result.Failed)
	assert.Equal(t, 1, result.Findings)
}
