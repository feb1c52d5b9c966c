package usecases

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

// changelogMatcher is one line pattern. Matchers run in registration order
// and the first matching non-fallback pattern wins; the fallback fires only
// when no specific matcher matched, so no line is silently dropped.
type changelogMatcher struct {
	name       string
	pattern    *regexp.Regexp
	isFallback bool
	handle     func(c *ChangelogCheck, ctx context.Context, line string, match []string, report *Report) error
}

var rtTicketPattern = regexp.MustCompile(`RT #(\d+)`)

// keyIDPattern matches any embedded long key id; the fallback matcher and
// the unparsed-line handler share it.
var keyIDPattern = regexp.MustCompile(`(?i)0x([0-9A-F]{16})`)

var changelogMatchers = []changelogMatcher{
	{
		name:    "new-maintainer-key",
		pattern: regexp.MustCompile(`(?i)add new DM key 0x([0-9A-F]{16})`),
		handle: func(c *ChangelogCheck, ctx context.Context, line string, match []string, report *Report) error {
			return c.handleImpliedStatus(ctx, line, match[1], membership.StatusMaintainer, report)
		},
	},
	{
		name:    "new-developer-key",
		pattern: regexp.MustCompile(`(?i)add new DD key 0x([0-9A-F]{16})`),
		handle: func(c *ChangelogCheck, ctx context.Context, line string, match []string, report *Report) error {
			return c.handleImpliedStatus(ctx, line, match[1], membership.StatusDeveloper, report)
		},
	},
	{
		name:    "moved-to-emeritus",
		pattern: regexp.MustCompile(`(?i)move 0x([0-9A-F]{16})\s.*to emeritus`),
		handle: func(c *ChangelogCheck, ctx context.Context, line string, match []string, report *Report) error {
			return c.handleImpliedStatus(ctx, line, match[1], membership.StatusEmeritusDD, report)
		},
	},
	{
		name:    "moved-to-removed",
		pattern: regexp.MustCompile(`(?i)move 0x([0-9A-F]{16})\s.*to removed`),
		handle: func(c *ChangelogCheck, ctx context.Context, line string, match []string, report *Report) error {
			return c.handleImpliedStatus(ctx, line, match[1], membership.StatusRemovedDD, report)
		},
	},
	{
		name:    "key-replaced",
		pattern: regexp.MustCompile(`(?i)replace 0x([0-9A-F]{16}) with 0x([0-9A-F]{16})`),
		handle: func(c *ChangelogCheck, ctx context.Context, line string, match []string, report *Report) error {
			return c.handleKeyReplaced(ctx, line, match[1], match[2], report)
		},
	},
	{
		name:       "unparsed-keys",
		pattern:    keyIDPattern,
		isFallback: true,
		handle: func(c *ChangelogCheck, ctx context.Context, line string, _ []string, report *Report) error {
			return c.handleUnparsed(ctx, line, report)
		},
	},
}

// ChangelogCheck mines the keyring changelog for membership changes we may
// have missed, annotating the people and keys each entry resolves to.
type ChangelogCheck struct {
	personRepo person.Repository
	changelog  consistency.ChangelogSource
	incRepo    consistency.Repository
	since      time.Time
	logger     logger.Interface

	peopleByKeyID map[string]*person.Person
}

func NewChangelogCheck(
	personRepo person.Repository,
	changelog consistency.ChangelogSource,
	incRepo consistency.Repository,
	since time.Time,
	logger logger.Interface,
) *ChangelogCheck {
	return &ChangelogCheck{
		personRepo: personRepo,
		changelog:  changelog,
		incRepo:    incRepo,
		since:      since,
		logger:     logger,
	}
}

func (c *ChangelogCheck) Name() string { return "keyring-changelog" }

func (c *ChangelogCheck) Run(ctx context.Context) (*Report, error) {
	report := &Report{CheckName: c.Name()}

	entries, err := c.changelog.Read(ctx, c.since)
	if err != nil {
		return nil, errors.NewSourceUnavailableError("keyring changelog unavailable", err.Error())
	}

	people, err := c.personRepo.ListWithFingerprint(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list people with fingerprints")
	}
	c.peopleByKeyID = make(map[string]*person.Person, len(people))
	for _, p := range people {
		c.peopleByKeyID[p.Fingerprint().KeyID()] = p
	}

	for _, entry := range entries {
		if err := c.processLine(ctx, entry.Line, report); err != nil {
			c.logger.Warnw("changelog line skipped",
				"date", entry.Date, "line", entry.Line, "error", err)
			report.Skipped++
		}
	}

	return report, nil
}

func (c *ChangelogCheck) processLine(ctx context.Context, line string, report *Report) error {
	for _, m := range changelogMatchers {
		if m.isFallback {
			continue
		}
		if match := m.pattern.FindStringSubmatch(line); match != nil {
			return m.handle(c, ctx, line, match, report)
		}
	}
	for _, m := range changelogMatchers {
		if !m.isFallback {
			continue
		}
		if m.pattern.MatchString(line) {
			return m.handle(c, ctx, line, nil, report)
		}
	}
	// No embedded key id at all: nothing to anchor the line to.
	return nil
}

// handleImpliedStatus decides, from current versus implied status, whether a
// parsed changelog event is already reflected in our data.
func (c *ChangelogCheck) handleImpliedStatus(
	ctx context.Context,
	line, keyID string,
	implied membership.Status,
	report *Report,
) error {
	keyID = strings.ToUpper(keyID)

	p, ok := c.peopleByKeyID[keyID]
	if !ok {
		rec := consistency.NewFingerprintRecord(keyID)
		rec.Info.AddLog("changelog mentions key 0x%s, unknown to us: %s", keyID, line)
		c.attachTicket(rec, line)
		report.Findings++
		return c.incRepo.Upsert(ctx, rec)
	}

	impliedTier, _ := implied.ExpectedTier()
	currentTier, hasTier := p.Status().ExpectedTier()
	if hasTier && currentTier == impliedTier {
		// Already consistent.
		return nil
	}

	rec := consistency.NewPersonRecord(p.ID())
	rec.Info.AddLog("keyring changelog implies %s but status is %s: %s", implied, p.Status(), line)
	rec.Info.SetExtra("suggested_status", implied.String())
	rec.Info.SetExtra("remediation",
		fmt.Sprintf("nmqueue nm change-status %s %s", personKey(p), implied))
	c.attachTicket(rec, line)
	report.Findings++
	return c.incRepo.Upsert(ctx, rec)
}

func (c *ChangelogCheck) handleKeyReplaced(ctx context.Context, line, oldKeyID, newKeyID string, report *Report) error {
	oldKeyID = strings.ToUpper(oldKeyID)
	newKeyID = strings.ToUpper(newKeyID)

	if _, ok := c.peopleByKeyID[newKeyID]; ok {
		// The replacement is already recorded.
		return nil
	}

	p, ok := c.peopleByKeyID[oldKeyID]
	if !ok {
		rec := consistency.NewFingerprintRecord(oldKeyID)
		rec.Info.AddLog("changelog replaces key 0x%s, unknown to us: %s", oldKeyID, line)
		c.attachTicket(rec, line)
		report.Findings++
		return c.incRepo.Upsert(ctx, rec)
	}

	rec := consistency.NewPersonRecord(p.ID())
	rec.Info.AddLog("key 0x%s was replaced with 0x%s: %s", oldKeyID, newKeyID, line)
	rec.Info.SetExtra("replacement_key_id", newKeyID)
	rec.Info.SetExtra("remediation",
		fmt.Sprintf("nmqueue person set-fingerprint %s <full fingerprint of 0x%s>", personKey(p), newKeyID))
	c.attachTicket(rec, line)
	report.Findings++
	return c.incRepo.Upsert(ctx, rec)
}

// handleUnparsed anchors a line no specific matcher understood to whatever
// entities its key ids resolve to.
func (c *ChangelogCheck) handleUnparsed(ctx context.Context, line string, report *Report) error {
	for _, match := range keyIDPattern.FindAllStringSubmatch(line, -1) {
		keyID := strings.ToUpper(match[1])

		var rec *consistency.Record
		if p, ok := c.peopleByKeyID[keyID]; ok {
			rec = consistency.NewPersonRecord(p.ID())
		} else {
			rec = consistency.NewFingerprintRecord(keyID)
		}
		rec.Info.AddLog("relevant but unparsed changelog entry: %s", line)
		c.attachTicket(rec, line)

		if err := c.incRepo.Upsert(ctx, rec); err != nil {
			return err
		}
		report.Findings++
	}
	return nil
}

func (c *ChangelogCheck) attachTicket(rec *consistency.Record, line string) {
	if m := rtTicketPattern.FindStringSubmatch(line); m != nil {
		rec.Info.SetExtra("rt_ticket", m[1])
	}
}
