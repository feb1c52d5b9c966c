package usecases

import (
	"context"
	"fmt"

	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/domain/person"
	vo "nmqueue/internal/domain/person/valueobjects"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

// DirectoryCheck diffs LDAP directory entries against person records by
// account name. The forwarding email is the one auto-applied correction:
// LDAP is considered more current than us. Group and status mismatches are
// logged only.
type DirectoryCheck struct {
	personRepo person.Repository
	directory  consistency.DirectorySource
	incRepo    consistency.Repository
	guestGID   int
	accountGID int
	logger     logger.Interface
}

func NewDirectoryCheck(
	personRepo person.Repository,
	directory consistency.DirectorySource,
	incRepo consistency.Repository,
	guestGID, accountGID int,
	logger logger.Interface,
) *DirectoryCheck {
	return &DirectoryCheck{
		personRepo: personRepo,
		directory:  directory,
		incRepo:    incRepo,
		guestGID:   guestGID,
		accountGID: accountGID,
		logger:     logger,
	}
}

func (c *DirectoryCheck) Name() string { return "directory" }

func (c *DirectoryCheck) Run(ctx context.Context) (*Report, error) {
	report := &Report{CheckName: c.Name()}

	entries, err := c.directory.ListEntries(ctx)
	if err != nil {
		return nil, errors.NewSourceUnavailableError("directory unavailable", err.Error())
	}
	byUID := make(map[string]consistency.DirectoryEntry, len(entries))
	for _, e := range entries {
		byUID[e.UID] = e
	}

	people, err := c.personRepo.ListWithUID(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list people with accounts")
	}

	ours := make(map[string]struct{}, len(people))
	for _, p := range people {
		uid := *p.UID()
		ours[uid] = struct{}{}

		entry, found := byUID[uid]
		if !found {
			rec := consistency.NewPersonRecord(p.ID())
			rec.Info.AddLog("account %s is not in the directory", uid)
			if err := c.incRepo.Upsert(ctx, rec); err != nil {
				return nil, err
			}
			report.Findings++
			continue
		}

		n, err := c.checkEntry(ctx, p, entry)
		if err != nil {
			c.logger.Warnw("directory entry check failed", "uid", uid, "error", err)
			report.Skipped++
			continue
		}
		report.Findings += n
	}

	// Directory accounts we have no record for.
	for uid, entry := range byUID {
		if _, known := ours[uid]; known {
			continue
		}
		if entry.Fingerprint == "" {
			c.logger.Infow("directory account unknown to us, no key to track it by", "uid", uid)
			continue
		}
		rec := consistency.NewFingerprintRecord(vo.NormalizeFingerprint(entry.Fingerprint))
		rec.Info.AddLog("directory account %s is unknown to us", uid)
		rec.Info.SetExtra("directory_uid", uid)
		if err := c.incRepo.Upsert(ctx, rec); err != nil {
			return nil, err
		}
		report.Findings++
	}

	return report, nil
}

// checkEntry compares one matched pair and returns the number of findings
// recorded.
func (c *DirectoryCheck) checkEntry(ctx context.Context, p *person.Person, entry consistency.DirectoryEntry) (int, error) {
	findings := 0

	if entry.ForwardEmail != "" && entry.ForwardEmail != p.Email().String() {
		email, err := vo.NewEmail(entry.ForwardEmail)
		if err != nil {
			return findings, errors.NewParseError(
				fmt.Sprintf("malformed forwarding email for %s", entry.UID), err.Error())
		}
		old := p.Email().String()
		if err := p.UpdateEmail(email); err != nil {
			return findings, err
		}
		if err := c.personRepo.Update(ctx, p); err != nil {
			return findings, err
		}
		c.logger.Infow("forwarding email updated from directory",
			"person_id", p.ID(), "old", old, "new", email)
	}

	rec := consistency.NewPersonRecord(p.ID())

	if entry.GroupID == c.accountGID && p.Status().IsApplicantTier() {
		rec.Info.AddLog("directory shows a full account but status is %s", p.Status())
	}
	if entry.GroupID == c.guestGID && p.Status().IsDeveloper() {
		rec.Info.AddLog("status is %s but the directory account is guest-only", p.Status())
	}

	if entry.Fingerprint != "" && p.Fingerprint() != nil {
		if fpr := vo.NormalizeFingerprint(entry.Fingerprint); fpr != p.Fingerprint().String() {
			rec.Info.AddLog("directory fingerprint %s differs from ours (%s)", fpr, p.Fingerprint())
		}
	}

	if rec.Info.IsEmpty() {
		return findings, nil
	}
	if err := c.incRepo.Upsert(ctx, rec); err != nil {
		return findings, err
	}
	return findings + 1, nil
}
