package consistency

import (
	"context"
	"time"

	"nmqueue/internal/domain/membership"
)

// KeyringSource exposes the five disjoint fingerprint sets published by
// keyring maintenance. Fingerprints are normalized to 40 uppercase hex
// characters with spaces stripped.
type KeyringSource interface {
	// ListFingerprints returns the fingerprint set for one tier.
	ListFingerprints(ctx context.Context, tier membership.KeyringTier) (map[string]struct{}, error)

	// KeyUserIDs returns the user IDs on a key, used to guess account names
	// for fingerprints unknown to us.
	KeyUserIDs(ctx context.Context, fpr string) ([]string, error)
}

// DirectoryEntry is one LDAP directory record.
type DirectoryEntry struct {
	UID            string
	Fingerprint    string // empty = none recorded
	ForwardEmail   string // empty = none recorded
	GroupID        int    // distinguishes full accounts from guest accounts
	CN, MN, SN     string
}

// DirectorySource exposes the LDAP directory.
type DirectorySource interface {
	ListEntries(ctx context.Context) ([]DirectoryEntry, error)
}

// ArchiveMaintainer is one Debian-Maintainer-role record known to the
// package archive.
type ArchiveMaintainer struct {
	Email string
	Name  string
}

// ArchiveSource exposes the archive's maintainer table, keyed by
// fingerprint.
type ArchiveSource interface {
	ListMaintainers(ctx context.Context) (map[string]ArchiveMaintainer, error)
}

// ChangelogEntry is one dated bullet group from the keyring changelog.
type ChangelogEntry struct {
	Date time.Time
	Line string
}

// ChangelogSource reads keyring changelog entries newer than the cutoff.
// Finite per invocation, restartable via since.
type ChangelogSource interface {
	Read(ctx context.Context, since time.Time) ([]ChangelogEntry, error)
}
