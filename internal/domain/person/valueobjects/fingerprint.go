package valueobjects

import (
	"fmt"
	"strings"
)

// fingerprintLen is the canonical length of an OpenPGP v4 fingerprint.
const fingerprintLen = 40

// Fingerprint is an OpenPGP key fingerprint, stored as 40 uppercase hex
// characters with spaces stripped.
type Fingerprint struct {
	value string
}

// NewFingerprint creates a Fingerprint from user or external-source input.
// Spaces are stripped and hex digits uppercased. An empty input is rejected:
// callers map it to a null column, never to an empty string.
func NewFingerprint(value string) (*Fingerprint, error) {
	normalized := NormalizeFingerprint(value)
	if normalized == "" {
		return nil, fmt.Errorf("fingerprint cannot be empty")
	}
	if len(normalized) != fingerprintLen {
		return nil, fmt.Errorf("fingerprint must be %d hex characters, got %d", fingerprintLen, len(normalized))
	}
	if !isHex(normalized) {
		return nil, fmt.Errorf("fingerprint contains non-hex characters: %s", value)
	}
	return &Fingerprint{value: normalized}, nil
}

// NormalizeFingerprint strips spaces and uppercases without validating
// length. Used when comparing keyring data that may carry short key ids.
func NormalizeFingerprint(value string) string {
	return strings.ToUpper(strings.Join(strings.Fields(value), ""))
}

func isHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

func (f *Fingerprint) String() string {
	return f.value
}

func (f *Fingerprint) Equals(other *Fingerprint) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.value == other.value
}

// KeyID returns the trailing 16 hex characters, the long key id embedded in
// keyring changelog lines.
func (f *Fingerprint) KeyID() string {
	return f.value[fingerprintLen-16:]
}
