// Package consistency models divergence between the local database and the
// external authoritative sources: inconsistency records with suggested
// fixes, and the fetch contracts for the sources themselves.
package consistency

import (
	"fmt"
	"time"
)

// Kind keys an inconsistency record to the entity it describes.
type Kind string

const (
	KindPerson      Kind = "person"
	KindProcess     Kind = "process"
	KindFingerprint Kind = "fingerprint"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindPerson, KindProcess, KindFingerprint:
		return true
	}
	return false
}

// Info is the structured payload of an inconsistency record: an append-only
// list of human-readable findings plus open extra keys. Merging overwrites
// extra values by key.
type Info struct {
	Log   []string          `json:"log"`
	Extra map[string]string `json:"extra,omitempty"`
}

func NewInfo() *Info {
	return &Info{Log: []string{}, Extra: map[string]string{}}
}

// AddLog appends a finding line.
func (i *Info) AddLog(format string, args ...any) {
	i.Log = append(i.Log, fmt.Sprintf(format, args...))
}

// SetExtra records a machine-actionable key, such as a suggested status or a
// ready-to-run remediation command.
func (i *Info) SetExtra(key, value string) {
	if i.Extra == nil {
		i.Extra = map[string]string{}
	}
	i.Extra[key] = value
}

// Merge folds another info into this one: log lines append, extra keys
// overwrite.
func (i *Info) Merge(other *Info) {
	if other == nil {
		return
	}
	i.Log = append(i.Log, other.Log...)
	for k, v := range other.Extra {
		i.SetExtra(k, v)
	}
}

// IsEmpty reports whether the record carries no findings.
func (i *Info) IsEmpty() bool {
	return len(i.Log) == 0 && len(i.Extra) == 0
}

// Record accumulates detected divergence for one entity. Records are reset
// at the start of each reconciliation run and deleted once a suggested fix
// is applied.
type Record struct {
	Kind        Kind
	PersonID    uint   // set for KindPerson and KindProcess
	ProcessID   uint   // set for KindProcess
	Fingerprint string // set for KindFingerprint
	Info        *Info
	CreatedAt   time.Time
}

// EntityKey returns the partition key under which findings for the same
// underlying entity must not race.
func (r *Record) EntityKey() string {
	switch r.Kind {
	case KindPerson:
		return fmt.Sprintf("person/%d", r.PersonID)
	case KindProcess:
		return fmt.Sprintf("process/%d", r.ProcessID)
	case KindFingerprint:
		return "fpr/" + r.Fingerprint
	}
	return ""
}

// NewPersonRecord creates an empty person-keyed record.
func NewPersonRecord(personID uint) *Record {
	return &Record{Kind: KindPerson, PersonID: personID, Info: NewInfo(), CreatedAt: time.Now().UTC()}
}

// NewProcessRecord creates an empty process-keyed record.
func NewProcessRecord(processID, personID uint) *Record {
	return &Record{Kind: KindProcess, ProcessID: processID, PersonID: personID, Info: NewInfo(), CreatedAt: time.Now().UTC()}
}

// NewFingerprintRecord creates an empty fingerprint-keyed record.
func NewFingerprintRecord(fpr string) *Record {
	return &Record{Kind: KindFingerprint, Fingerprint: fpr, Info: NewInfo(), CreatedAt: time.Now().UTC()}
}
