// Package constants defines shared constant values used across the application.
package constants

// Environment names
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Database table names
const (
	TablePersons         = "persons"
	TableAMs             = "ams"
	TableProcesses       = "processes"
	TableProcessLogs     = "process_logs"
	TableAdvocates       = "process_advocates"
	TableInconsistencies = "inconsistencies"
)

// Site-wide role names mirrored into the policy store from AM flags.
const (
	RoleAM        = "am"
	RoleFrontDesk = "fd"
	RoleDAM       = "dam"
)

// Gin context keys set by the authentication middleware.
const (
	ContextKeyPersonID = "person_id"
	ContextKeyUID      = "uid"
)

// FingerprintLen is the canonical length of a stored OpenPGP fingerprint.
const FingerprintLen = 40

// LookupKeyFingerprintMin is the key length above which a hex-looking lookup
// key is treated as a fingerprint rather than an account name.
const LookupKeyFingerprintMin = 32
