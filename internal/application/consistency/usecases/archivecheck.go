package usecases

import (
	"context"

	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

// ArchiveCheck cross-checks the package archive's maintainer table: every
// archive maintainer should resolve to a person in a maintainer tier.
type ArchiveCheck struct {
	personRepo person.Repository
	archive    consistency.ArchiveSource
	incRepo    consistency.Repository
	logger     logger.Interface
}

func NewArchiveCheck(
	personRepo person.Repository,
	archive consistency.ArchiveSource,
	incRepo consistency.Repository,
	logger logger.Interface,
) *ArchiveCheck {
	return &ArchiveCheck{
		personRepo: personRepo,
		archive:    archive,
		incRepo:    incRepo,
		logger:     logger,
	}
}

func (c *ArchiveCheck) Name() string { return "archive" }

func (c *ArchiveCheck) Run(ctx context.Context) (*Report, error) {
	report := &Report{CheckName: c.Name()}

	maintainers, err := c.archive.ListMaintainers(ctx)
	if err != nil {
		return nil, errors.NewSourceUnavailableError("archive maintainer table unavailable", err.Error())
	}

	people, err := c.personRepo.ListWithFingerprint(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list people with fingerprints")
	}
	byFpr := make(map[string]*person.Person, len(people))
	for _, p := range people {
		byFpr[p.Fingerprint().String()] = p
	}

	for fpr, m := range maintainers {
		p := byFpr[fpr]
		if p == nil && m.Email != "" {
			p, err = c.personRepo.GetByEmail(ctx, m.Email)
			if err != nil {
				c.logger.Warnw("archive maintainer lookup failed", "email", m.Email, "error", err)
				report.Skipped++
				continue
			}
		}

		if p == nil {
			rec := consistency.NewFingerprintRecord(fpr)
			rec.Info.AddLog("archive lists maintainer %q <%s>, unknown to us", m.Name, m.Email)
			if err := c.incRepo.Upsert(ctx, rec); err != nil {
				return nil, err
			}
			report.Findings++
			continue
		}

		if p.Status().IsMaintainerTier() || p.Status().IsDeveloper() {
			continue
		}

		rec := consistency.NewPersonRecord(p.ID())
		rec.Info.AddLog("archive lists %s as a maintainer but status is %s", personKey(p), p.Status())
		if err := c.incRepo.Upsert(ctx, rec); err != nil {
			return nil, err
		}
		report.Findings++
	}

	return report, nil
}
