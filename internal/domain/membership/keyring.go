package membership

// KeyringTier identifies one of the five disjoint fingerprint sets published
// by keyring maintenance.
type KeyringTier string

const (
	TierDM       KeyringTier = "dm"
	TierDDU      KeyringTier = "dd_u"
	TierDDNU     KeyringTier = "dd_nu"
	TierEmeritus KeyringTier = "emeritus"
	TierRemoved  KeyringTier = "removed"
)

// AllKeyringTiers returns the tiers in checking order.
func AllKeyringTiers() []KeyringTier {
	return []KeyringTier{TierDM, TierDDU, TierDDNU, TierEmeritus, TierRemoved}
}

func (t KeyringTier) String() string {
	return string(t)
}

// statusTier maps a person status to the keyring tier its key is expected to
// live in. Applicant tiers have no keyring presence.
var statusTier = map[Status]KeyringTier{
	StatusMaintainer:   TierDM,
	StatusMaintainerGA: TierDM,
	StatusDeveloper:    TierDDU,
	StatusDeveloperNU:  TierDDNU,
	StatusEmeritusDD:   TierEmeritus,
	StatusEmeritusDM:   TierEmeritus,
	StatusRemovedDD:    TierRemoved,
	StatusRemovedDM:    TierRemoved,
}

// ExpectedTier returns the keyring tier a person with this status should
// appear in, or false when the status has no keyring presence.
func (s Status) ExpectedTier() (KeyringTier, bool) {
	t, ok := statusTier[s]
	return t, ok
}

// StatusForTier returns the canonical status implied by finding a key in the
// given tier, used to suggest corrections. The uploading/guest variants
// collapse onto the plain tier status.
func StatusForTier(t KeyringTier) (Status, bool) {
	switch t {
	case TierDM:
		return StatusMaintainer, true
	case TierDDU:
		return StatusDeveloper, true
	case TierDDNU:
		return StatusDeveloperNU, true
	case TierEmeritus:
		return StatusEmeritusDD, true
	case TierRemoved:
		return StatusRemovedDD, true
	}
	return "", false
}
