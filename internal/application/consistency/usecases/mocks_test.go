package usecases

import (
	"context"
	"sort"
	"time"

	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/logger"
)

// memIncRepo is an in-memory inconsistency store with the same
// merge-by-entity semantics as the persistent one.
type memIncRepo struct {
	records map[string]*consistency.Record
}

func newMemIncRepo() *memIncRepo {
	return &memIncRepo{records: map[string]*consistency.Record{}}
}

func (r *memIncRepo) Reset(context.Context) error {
	r.records = map[string]*consistency.Record{}
	return nil
}

func (r *memIncRepo) Upsert(_ context.Context, record *consistency.Record) error {
	existing, ok := r.records[record.EntityKey()]
	if !ok {
		r.records[record.EntityKey()] = record
		return nil
	}
	existing.Info.Merge(record.Info)
	return nil
}

func (r *memIncRepo) List(_ context.Context, kind consistency.Kind) ([]*consistency.Record, error) {
	var out []*consistency.Record
	for _, rec := range r.records {
		if kind == "" || rec.Kind == kind {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityKey() < out[j].EntityKey() })
	return out, nil
}

func (r *memIncRepo) GetByEntity(_ context.Context, _ consistency.Kind, entityKey string) (*consistency.Record, error) {
	return r.records[entityKey], nil
}

func (r *memIncRepo) DeleteByEntity(_ context.Context, _ consistency.Kind, entityKey string) error {
	delete(r.records, entityKey)
	return nil
}

type fakeKeyring struct {
	tiers   map[membership.KeyringTier]map[string]struct{}
	userIDs map[string][]string
	err     error
}

func (f *fakeKeyring) ListFingerprints(_ context.Context, tier membership.KeyringTier) (map[string]struct{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	set := f.tiers[tier]
	if set == nil {
		set = map[string]struct{}{}
	}
	return set, nil
}

func (f *fakeKeyring) KeyUserIDs(_ context.Context, fpr string) ([]string, error) {
	return f.userIDs[fpr], nil
}

type fakeDirectory struct {
	entries []consistency.DirectoryEntry
	err     error
}

func (f *fakeDirectory) ListEntries(context.Context) ([]consistency.DirectoryEntry, error) {
	return f.entries, f.err
}

type fakeArchive struct {
	maintainers map[string]consistency.ArchiveMaintainer
	err         error
}

func (f *fakeArchive) ListMaintainers(context.Context) (map[string]consistency.ArchiveMaintainer, error) {
	return f.maintainers, f.err
}

type fakeChangelog struct {
	entries []consistency.ChangelogEntry
	err     error
}

func (f *fakeChangelog) Read(context.Context, time.Time) ([]consistency.ChangelogEntry, error) {
	return f.entries, f.err
}

type mockPersonRepo struct {
	person.Repository

	people []*person.Person
}

func (m *mockPersonRepo) GetByID(_ context.Context, id uint) (*person.Person, error) {
	for _, p := range m.people {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPersonRepo) GetByUID(_ context.Context, uid string) (*person.Person, error) {
	for _, p := range m.people {
		if p.UID() != nil && *p.UID() == uid {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPersonRepo) GetByEmail(_ context.Context, email string) (*person.Person, error) {
	for _, p := range m.people {
		if p.Email().String() == email {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPersonRepo) Update(context.Context, *person.Person) error { return nil }

func (m *mockPersonRepo) ListWithFingerprint(context.Context) ([]*person.Person, error) {
	var out []*person.Person
	for _, p := range m.people {
		if p.Fingerprint() != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPersonRepo) ListWithUID(context.Context) ([]*person.Person, error) {
	var out []*person.Person
	for _, p := range m.people {
		if p.UID() != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockProcessRepo struct {
	process.Repository

	active []*process.Process
}

func (m *mockProcessRepo) ListActive(context.Context) ([]*process.Process, error) {
	return m.active, nil
}

type mockLogRepo struct {
	process.LogRepository

	lastByProcess map[uint]*process.LogEntry
}

func (m *mockLogRepo) LastByProcess(_ context.Context, processID uint) (*process.LogEntry, error) {
	return m.lastByProcess[processID], nil
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any)            {}
func (noopLogger) Info(string, ...any)             {}
func (noopLogger) Warn(string, ...any)             {}
func (noopLogger) Error(string, ...any)            {}
func (l noopLogger) With(...any) logger.Interface  { return l }
func (l noopLogger) Named(string) logger.Interface { return l }
func (noopLogger) Debugw(string, ...any)           {}
func (noopLogger) Infow(string, ...any)            {}
func (noopLogger) Warnw(string, ...any)            {}
func (noopLogger) Errorw(string, ...any)           {}
