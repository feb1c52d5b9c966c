package sources

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-ldap/ldap/v3"

	"nmqueue/internal/domain/consistency"
	vo "nmqueue/internal/domain/person/valueobjects"
	sharedConfig "nmqueue/internal/shared/config"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

const directoryPageSize = 500

var directoryAttributes = []string{
	"uid", "gidNumber", "keyFingerPrint", "emailForward", "cn", "mn", "sn",
}

// LDAPDirectorySource queries the project directory for account records.
type LDAPDirectorySource struct {
	cfg    *sharedConfig.DirectoryConfig
	logger logger.Interface
}

func NewLDAPDirectorySource(cfg *sharedConfig.DirectoryConfig, log logger.Interface) *LDAPDirectorySource {
	return &LDAPDirectorySource{
		cfg:    cfg,
		logger: log.Named("directory"),
	}
}

func (s *LDAPDirectorySource) ListEntries(ctx context.Context) ([]consistency.DirectoryEntry, error) {
	conn, err := ldap.DialURL(s.cfg.URI)
	if err != nil {
		return nil, errors.NewSourceUnavailableError(fmt.Sprintf("directory %s unreachable", s.cfg.URI), err.Error())
	}
	defer conn.Close()

	if s.cfg.BindDN != "" {
		if err := conn.Bind(s.cfg.BindDN, s.cfg.BindPassword); err != nil {
			return nil, errors.NewSourceUnavailableError("directory bind failed", err.Error())
		}
	}

	request := ldap.NewSearchRequest(
		s.cfg.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		"(uid=*)",
		directoryAttributes,
		nil,
	)

	result, err := conn.SearchWithPaging(request, directoryPageSize)
	if err != nil {
		return nil, errors.NewSourceUnavailableError("directory search failed", err.Error())
	}

	entries := make([]consistency.DirectoryEntry, 0, len(result.Entries))
	for _, e := range result.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		uid := e.GetAttributeValue("uid")
		if uid == "" {
			continue
		}

		gid := 0
		if raw := e.GetAttributeValue("gidNumber"); raw != "" {
			parsed, perr := strconv.Atoi(raw)
			if perr != nil {
				s.logger.Warnw("skipping entry with malformed gidNumber",
					"uid", uid,
					"gid", raw)
				continue
			}
			gid = parsed
		}

		entries = append(entries, consistency.DirectoryEntry{
			UID:          uid,
			Fingerprint:  vo.NormalizeFingerprint(e.GetAttributeValue("keyFingerPrint")),
			ForwardEmail: strings.ToLower(strings.TrimSpace(e.GetAttributeValue("emailForward"))),
			GroupID:      gid,
			CN:           e.GetAttributeValue("cn"),
			MN:           e.GetAttributeValue("mn"),
			SN:           e.GetAttributeValue("sn"),
		})
	}

	s.logger.Debugw("directory listing fetched", "entries", len(entries))
	return entries, nil
}
