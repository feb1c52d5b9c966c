package usecases

import (
	"context"
	"fmt"
	"strings"

	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

// KeyringCheck compares every person holding a fingerprint against the five
// keyring tiers, in both directions.
type KeyringCheck struct {
	personRepo person.Repository
	keyring    consistency.KeyringSource
	incRepo    consistency.Repository
	logger     logger.Interface
}

func NewKeyringCheck(
	personRepo person.Repository,
	keyring consistency.KeyringSource,
	incRepo consistency.Repository,
	logger logger.Interface,
) *KeyringCheck {
	return &KeyringCheck{
		personRepo: personRepo,
		keyring:    keyring,
		incRepo:    incRepo,
		logger:     logger,
	}
}

func (c *KeyringCheck) Name() string { return "keyring" }

func (c *KeyringCheck) Run(ctx context.Context) (*Report, error) {
	report := &Report{CheckName: c.Name()}

	// One fetch per tier per run; everything below works off these sets.
	tiers := map[membership.KeyringTier]map[string]struct{}{}
	for _, tier := range membership.AllKeyringTiers() {
		fprs, err := c.keyring.ListFingerprints(ctx, tier)
		if err != nil {
			return nil, errors.NewSourceUnavailableError(
				fmt.Sprintf("keyring tier %s unavailable", tier), err.Error())
		}
		tiers[tier] = fprs
	}

	people, err := c.personRepo.ListWithFingerprint(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list people with fingerprints")
	}

	// Last write wins; a duplicate fingerprint is itself a finding, not
	// fatal.
	peopleByFpr := make(map[string]*person.Person, len(people))
	for _, p := range people {
		fpr := p.Fingerprint().String()
		if prev, dup := peopleByFpr[fpr]; dup {
			rec := consistency.NewPersonRecord(p.ID())
			rec.Info.AddLog("fingerprint %s is also recorded on person %d", fpr, prev.ID())
			if err := c.incRepo.Upsert(ctx, rec); err != nil {
				return nil, err
			}
			report.Findings++
		}
		peopleByFpr[fpr] = p
	}

	if err := c.checkPeople(ctx, people, tiers, report); err != nil {
		return nil, err
	}
	if err := c.checkUnknownKeys(ctx, peopleByFpr, tiers, report); err != nil {
		return nil, err
	}

	return report, nil
}

// checkPeople verifies every person's key sits in the tier their status
// implies.
func (c *KeyringCheck) checkPeople(
	ctx context.Context,
	people []*person.Person,
	tiers map[membership.KeyringTier]map[string]struct{},
	report *Report,
) error {
	for _, p := range people {
		expected, ok := p.Status().ExpectedTier()
		if !ok {
			// Applicant tiers have no keyring presence.
			continue
		}

		fpr := p.Fingerprint().String()
		if _, found := tiers[expected][fpr]; found {
			continue
		}

		rec := consistency.NewPersonRecord(p.ID())
		actual, found := searchTiers(tiers, fpr)
		switch {
		case found:
			suggested, _ := membership.StatusForTier(actual)
			rec.Info.AddLog("status says %s but key %s is in the %s keyring",
				p.Status(), fpr, actual)
			rec.Info.SetExtra("suggested_status", suggested.String())
			rec.Info.SetExtra("remediation",
				fmt.Sprintf("nmqueue nm change-status %s %s", personKey(p), suggested))
		case expected == membership.TierRemoved:
			// The removed tier is not authoritatively listed.
			continue
		default:
			rec.Info.AddLog("key %s for status %s is not in any keyring", fpr, p.Status())
		}

		if err := c.incRepo.Upsert(ctx, rec); err != nil {
			return err
		}
		report.Findings++
	}
	return nil
}

// checkUnknownKeys reports keyring fingerprints no person record carries,
// guessing candidate matches from the key's own user IDs.
func (c *KeyringCheck) checkUnknownKeys(
	ctx context.Context,
	peopleByFpr map[string]*person.Person,
	tiers map[membership.KeyringTier]map[string]struct{},
	report *Report,
) error {
	for _, tier := range membership.AllKeyringTiers() {
		if tier == membership.TierRemoved {
			// Not cross-checked in this direction.
			continue
		}
		for fpr := range tiers[tier] {
			if _, known := peopleByFpr[fpr]; known {
				continue
			}

			rec := consistency.NewFingerprintRecord(fpr)
			rec.Info.AddLog("key %s is in the %s keyring but unknown to us", fpr, tier)

			if err := c.guessCandidates(ctx, fpr, rec); err != nil {
				c.logger.Warnw("failed to read key user IDs", "fpr", fpr, "error", err)
				report.Skipped++
			}

			if err := c.incRepo.Upsert(ctx, rec); err != nil {
				return err
			}
			report.Findings++
		}
	}
	return nil
}

// guessCandidates parses a key's user IDs for project-address identities and
// matches them against existing people. Matches become candidate fixes,
// never auto-applied.
func (c *KeyringCheck) guessCandidates(ctx context.Context, fpr string, rec *consistency.Record) error {
	uids, err := c.keyring.KeyUserIDs(ctx, fpr)
	if err != nil {
		return err
	}

	n := 0
	for _, uid := range uids {
		addr := extractAddress(uid)
		if addr == "" {
			continue
		}

		var candidate *person.Person
		if local, ok := strings.CutSuffix(addr, "@debian.org"); ok {
			candidate, err = c.personRepo.GetByUID(ctx, local)
			if err != nil {
				return err
			}
		}
		if candidate == nil {
			candidate, err = c.personRepo.GetByEmail(ctx, addr)
			if err != nil {
				return err
			}
		}
		if candidate == nil {
			continue
		}

		n++
		rec.Info.AddLog("key user ID %q matches person %d (%s)", uid, candidate.ID(), personKey(candidate))
		rec.Info.SetExtra(fmt.Sprintf("candidate_%d", n),
			fmt.Sprintf("nmqueue person set-fingerprint %s %s", personKey(candidate), fpr))
	}
	return nil
}

// searchTiers finds which tier, if any, holds the fingerprint.
func searchTiers(tiers map[membership.KeyringTier]map[string]struct{}, fpr string) (membership.KeyringTier, bool) {
	for _, tier := range membership.AllKeyringTiers() {
		if _, ok := tiers[tier][fpr]; ok {
			return tier, true
		}
	}
	return "", false
}

// personKey returns the handle remediation commands address a person by.
func personKey(p *person.Person) string {
	if p.UID() != nil {
		return *p.UID()
	}
	return p.Email().String()
}

// extractAddress pulls the email address out of an OpenPGP user ID such as
// "Ada Lovelace <ada@debian.org>".
func extractAddress(uid string) string {
	open := strings.LastIndexByte(uid, '<')
	end := strings.LastIndexByte(uid, '>')
	if open >= 0 && end > open {
		return strings.ToLower(strings.TrimSpace(uid[open+1 : end]))
	}
	if strings.Count(uid, "@") == 1 && !strings.ContainsAny(uid, " \t") {
		return strings.ToLower(uid)
	}
	return ""
}
