package person

import "strings"

// LookupKeyKind classifies a free-form lookup key.
type LookupKeyKind int

const (
	LookupByUID LookupKeyKind = iota
	LookupByFingerprint
	LookupByEmail
)

// ClassifyLookupKey applies the documented lookup heuristic: keys longer
// than 32 characters that look like hex are fingerprints, keys containing
// "@" are emails, everything else is an account name.
//
// The heuristic can misclassify an unusually long account name; the
// precedence is preserved deliberately and must not be reordered without a
// behavior review.
func ClassifyLookupKey(key string) LookupKeyKind {
	key = strings.TrimSpace(key)
	if len(key) > 32 && looksHex(key) {
		return LookupByFingerprint
	}
	if strings.Contains(key, "@") {
		return LookupByEmail
	}
	return LookupByUID
}

func looksHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		case c == ' ':
		default:
			return false
		}
	}
	return true
}
