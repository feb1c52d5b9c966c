package valueobjects

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Name is a person name component (given, middle or family). Names arrive
// from registration forms, LDAP and key user IDs; they are NFC-normalized so
// the same person matches across sources.
type Name struct {
	value string
}

// NewName creates a normalized Name. Empty is allowed for middle names;
// callers decide which components are required.
func NewName(value string) (*Name, error) {
	normalized := norm.NFC.String(strings.TrimSpace(value))
	if len(normalized) > 100 {
		return nil, fmt.Errorf("name cannot exceed 100 characters")
	}
	return &Name{value: normalized}, nil
}

func (n *Name) String() string {
	if n == nil {
		return ""
	}
	return n.value
}

func (n *Name) IsEmpty() bool {
	return n == nil || n.value == ""
}

func (n *Name) Equals(other *Name) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.value == other.value
}
