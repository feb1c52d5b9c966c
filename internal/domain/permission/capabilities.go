// Package permission computes the capability set a viewer holds over a
// subject person and their active process.
package permission

import (
	"sort"
	"strings"
)

// Capability is a single bit in the capability set.
type Capability uint16

const (
	CapViewPerson Capability = 1 << iota // basic identity info
	CapViewLog                           // process audit trail
	CapViewEmail                         // email address and mail archive
	CapEditPerson                        // identity fields
	CapAdvocate                          // advocate marker on the active process
	CapManage                            // transition manager-level progress
	CapFrontDesk                         // transition front-desk-level progress
	CapDAM                               // transition DAM-level progress
)

var capNames = map[Capability]string{
	CapViewPerson: "view_person",
	CapViewLog:    "view_log",
	CapViewEmail:  "view_email",
	CapEditPerson: "edit_person",
	CapAdvocate:   "advocate",
	CapManage:     "manage",
	CapFrontDesk:  "fd",
	CapDAM:        "dam",
}

// Capabilities is the capability set. It is a value type: sets compare with
// == and tests assert on exact capability strings.
type Capabilities uint16

// None is the empty capability set.
const None Capabilities = 0

// All is the full capability set held by front desk and DAM members.
const All = Capabilities(CapViewPerson | CapViewLog | CapViewEmail | CapEditPerson |
	CapAdvocate | CapManage | CapFrontDesk | CapDAM)

func (c Capabilities) Has(cap Capability) bool {
	return c&Capabilities(cap) != 0
}

func (c Capabilities) With(caps ...Capability) Capabilities {
	for _, x := range caps {
		c |= Capabilities(x)
	}
	return c
}

// Strings returns the sorted capability names in the set.
func (c Capabilities) Strings() []string {
	out := make([]string, 0, 8)
	for cap, name := range capNames {
		if c.Has(cap) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (c Capabilities) String() string {
	if c == None {
		return "-"
	}
	return strings.Join(c.Strings(), "+")
}
