package domain

import (
	"strings"
	"time"
)

// Guardian override token TTL bounds.
const (
	OverrideTTLFloor   = 30 * time.Second
	OverrideTTLCeiling = 900 * time.Second
)

// ClampOverrideTTL forces a requested token lifetime into the permitted
// window.
func ClampOverrideTTL(ttl time.Duration) time.Duration {
	if ttl < OverrideTTLFloor {
		return OverrideTTLFloor
	}
	if ttl > OverrideTTLCeiling {
		return OverrideTTLCeiling
	}
	return ttl
}

// GuardianOverrideToken is a short-lived, action-scoped approval credential.
// One token slot exists per action code; issuing again overwrites the prior
// token. Tokens are re-checkable until expiry, not single-use.
type GuardianOverrideToken struct {
	ActionCode  string
	ReasonCode  string
	ProfileHash string
	// Proof is a signed compact artifact handed to the gated caller so the
	// approval can be carried across process boundaries tamper-evidently.
	Proof     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the token has reached its expiry instant.
func (t GuardianOverrideToken) IsExpired(at time.Time) bool {
	return !at.Before(t.ExpiresAt)
}

// MatchesScope checks the token against the caller's requested scope. The
// action code must match exactly; reason and profile bindings only apply
// when the caller supplies an expectation.
func (t GuardianOverrideToken) MatchesScope(actionCode, expectedReason, expectedProfile string) bool {
	if t.ActionCode != strings.TrimSpace(actionCode) {
		return false
	}
	if expectedReason != "" && t.ReasonCode != expectedReason {
		return false
	}
	if expectedProfile != "" && t.ProfileHash != expectedProfile {
		return false
	}
	return true
}
