package sources

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"nmqueue/internal/domain/consistency"
	vo "nmqueue/internal/domain/person/valueobjects"
	sharedConfig "nmqueue/internal/shared/config"
	"nmqueue/internal/shared/constants"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

// HTTPArchiveSource fetches the package archive's maintainer export. Each
// non-comment line pairs a key fingerprint with the maintainer identity it
// grants upload rights to:
//
//	A4105B0A9F8497ECAB5F16838D5B478CF7FE4DAA  Ada Lovelace <ada@example.org>
type HTTPArchiveSource struct {
	cfg    *sharedConfig.ArchiveConfig
	client *http.Client
	logger logger.Interface
}

func NewHTTPArchiveSource(cfg *sharedConfig.ArchiveConfig, log logger.Interface) *HTTPArchiveSource {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPArchiveSource{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: log.Named("archive"),
	}
}

func (s *HTTPArchiveSource) ListMaintainers(ctx context.Context) (map[string]consistency.ArchiveMaintainer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.MaintainersURL, nil)
	if err != nil {
		return nil, errors.NewSourceUnavailableError("archive maintainers URL malformed", err.Error())
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.NewSourceUnavailableError("archive maintainers fetch failed", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewSourceUnavailableError(fmt.Sprintf("archive maintainers fetch returned %d", resp.StatusCode))
	}

	maintainers := make(map[string]consistency.ArchiveMaintainer)
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		field, rest, found := strings.Cut(line, " ")
		if !found {
			s.logger.Warnw("skipping malformed maintainer line", "line", line)
			continue
		}
		fpr := vo.NormalizeFingerprint(field)
		if len(fpr) != constants.FingerprintLen {
			s.logger.Warnw("skipping maintainer line with bad fingerprint", "line", line)
			continue
		}

		name, email := splitIdentity(strings.TrimSpace(rest))
		maintainers[fpr] = consistency.ArchiveMaintainer{
			Name:  name,
			Email: email,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewSourceUnavailableError("reading archive maintainers export", err.Error())
	}

	s.logger.Debugw("archive maintainers fetched", "count", len(maintainers))
	return maintainers, nil
}

// splitIdentity separates "Name <addr>" into its parts. A bare address comes
// back with an empty name.
func splitIdentity(identity string) (name, email string) {
	open := strings.LastIndex(identity, "<")
	end := strings.LastIndex(identity, ">")
	if open == -1 || end == -1 || end < open {
		return "", strings.ToLower(identity)
	}
	return strings.TrimSpace(identity[:open]), strings.ToLower(strings.TrimSpace(identity[open+1 : end]))
}
