package sources

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

const changelogDateLayout = "2006-01-02"

// FileChangelogSource reads the keyring maintenance changelog. The file is a
// sequence of date headers, each followed by bullet lines describing the
// key operations performed that day:
//
//	2026-07-01
//	  * Add new DM key 0x1234567890ABCDEF (RT #9999)
//	  * Move 0xFEDCBA0987654321 to emeritus (RT #9998)
type FileChangelogSource struct {
	path   string
	logger logger.Interface
}

func NewFileChangelogSource(path string, log logger.Interface) *FileChangelogSource {
	return &FileChangelogSource{
		path:   path,
		logger: log.Named("changelog"),
	}
}

func (s *FileChangelogSource) Read(ctx context.Context, since time.Time) ([]consistency.ChangelogEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.NewSourceUnavailableError(fmt.Sprintf("changelog %s unreadable", s.path), err.Error())
	}
	defer f.Close()

	var (
		entries []consistency.ChangelogEntry
		current time.Time
		haveDay bool
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if day, derr := time.Parse(changelogDateLayout, line); derr == nil {
			current = day.UTC()
			haveDay = true
			continue
		}

		bullet, isBullet := strings.CutPrefix(line, "*")
		if !isBullet {
			s.logger.Debugw("ignoring changelog line outside bullet structure", "line", line)
			continue
		}
		if !haveDay {
			s.logger.Warnw("bullet before any date header", "line", line)
			continue
		}
		if !current.After(since) {
			continue
		}

		entries = append(entries, consistency.ChangelogEntry{
			Date: current,
			Line: strings.TrimSpace(bullet),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewSourceUnavailableError(fmt.Sprintf("reading changelog %s", s.path), err.Error())
	}

	return entries, nil
}
