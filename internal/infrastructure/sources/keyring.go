package sources

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"nmqueue/internal/domain/membership"
	vo "nmqueue/internal/domain/person/valueobjects"
	"nmqueue/internal/shared/constants"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

// keyringManifest is the yaml file published alongside keyring exports. It
// maps each tier to a fingerprint list and points at the user-ID index used
// to guess identities for unknown keys.
//
//	tiers:
//	  dm: debian-maintainers.txt
//	  dd_u: debian-keyring.txt
//	uids: key-uids.txt
type keyringManifest struct {
	Tiers map[string]string `yaml:"tiers"`
	UIDs  string            `yaml:"uids"`
}

// FileKeyringSource reads keyring exports from the local filesystem. The
// export is a plain fingerprint-per-line file per tier, plus a tab-separated
// fingerprint-to-user-ID index.
type FileKeyringSource struct {
	manifestPath string
	logger       logger.Interface
}

func NewFileKeyringSource(manifestPath string, log logger.Interface) *FileKeyringSource {
	return &FileKeyringSource{
		manifestPath: manifestPath,
		logger:       log.Named("keyring"),
	}
}

func (s *FileKeyringSource) ListFingerprints(ctx context.Context, tier membership.KeyringTier) (map[string]struct{}, error) {
	manifest, err := s.loadManifest()
	if err != nil {
		return nil, err
	}

	location, ok := manifest.Tiers[tier.String()]
	if !ok {
		return nil, errors.NewSourceUnavailableError(fmt.Sprintf("keyring manifest has no %s tier", tier))
	}

	path := s.resolve(location)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewSourceUnavailableError(fmt.Sprintf("keyring export %s unreadable", path), err.Error())
	}
	defer f.Close()

	fingerprints := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fpr := vo.NormalizeFingerprint(line)
		if len(fpr) != constants.FingerprintLen {
			s.logger.Warnw("skipping malformed fingerprint line",
				"tier", tier.String(),
				"line", line)
			continue
		}
		fingerprints[fpr] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewSourceUnavailableError(fmt.Sprintf("reading keyring export %s", path), err.Error())
	}

	return fingerprints, nil
}

func (s *FileKeyringSource) KeyUserIDs(ctx context.Context, fpr string) ([]string, error) {
	manifest, err := s.loadManifest()
	if err != nil {
		return nil, err
	}
	if manifest.UIDs == "" {
		return nil, nil
	}

	path := s.resolve(manifest.UIDs)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewSourceUnavailableError(fmt.Sprintf("user-ID index %s unreadable", path), err.Error())
	}
	defer f.Close()

	want := vo.NormalizeFingerprint(fpr)
	var userIDs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key, uid, found := strings.Cut(scanner.Text(), "\t")
		if !found {
			continue
		}
		if vo.NormalizeFingerprint(key) == want {
			userIDs = append(userIDs, strings.TrimSpace(uid))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewSourceUnavailableError(fmt.Sprintf("reading user-ID index %s", path), err.Error())
	}

	return userIDs, nil
}

func (s *FileKeyringSource) loadManifest() (*keyringManifest, error) {
	raw, err := os.ReadFile(s.manifestPath)
	if err != nil {
		return nil, errors.NewSourceUnavailableError(fmt.Sprintf("keyring manifest %s unreadable", s.manifestPath), err.Error())
	}

	var manifest keyringManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, errors.NewSourceUnavailableError(fmt.Sprintf("keyring manifest %s malformed", s.manifestPath), err.Error())
	}

	return &manifest, nil
}

// resolve interprets relative locations against the manifest's directory.
func (s *FileKeyringSource) resolve(location string) string {
	if filepath.IsAbs(location) {
		return location
	}
	return filepath.Join(filepath.Dir(s.manifestPath), location)
}
