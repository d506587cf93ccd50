package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// OwnerID identifies a household member. The raw string form only appears at
// the storage and configuration edges; business logic receives it already
// normalized.
type OwnerID string

// NormalizeOwnerID lowercases and trims a raw owner identifier.
func NormalizeOwnerID(raw string) OwnerID {
	return OwnerID(strings.ToLower(strings.TrimSpace(raw)))
}

// String returns the storage form of the owner identifier.
func (o OwnerID) String() string {
	return string(o)
}

// HashKey derives a stable, non-reversible key for the owner, used when
// fingerprinting rotation actions.
func (o OwnerID) HashKey() string {
	sum := sha256.Sum256([]byte(o))
	return hex.EncodeToString(sum[:])
}

// OwnerRole is the closed set of roles a household member can hold.
type OwnerRole string

const (
	RoleGuardian OwnerRole = "guardian"
	RoleAdult    OwnerRole = "adult"
	RoleMinor    OwnerRole = "minor"
	RoleUnknown  OwnerRole = "unknown"
)

// ParseOwnerRole maps a stored role string onto the closed enumeration,
// falling back to RoleUnknown for anything unrecognized.
func ParseOwnerRole(raw string) OwnerRole {
	switch OwnerRole(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleGuardian:
		return RoleGuardian
	case RoleAdult:
		return RoleAdult
	case RoleMinor:
		return RoleMinor
	default:
		return RoleUnknown
	}
}

// RequiresGuardianApproval reports whether sensitive actions performed on
// behalf of this role must present a guardian override token.
func (r OwnerRole) RequiresGuardianApproval() bool {
	return r == RoleMinor || r == RoleUnknown
}

// OwnerProfile describes a household member as resolved by the owner
// directory collaborator.
type OwnerProfile struct {
	ID            OwnerID
	DisplayName   string
	Role          OwnerRole
	EmailPatterns []string
	// RecordLimit caps the number of credential records the owner may hold.
	// Zero or negative means unlimited.
	RecordLimit int
	// QueueActionLimit caps concurrently pending rotation actions for the
	// owner. Zero or negative means unlimited.
	QueueActionLimit int
}

// MatchesUsername reports whether the username matches one of the profile's
// configured email patterns.
func (p OwnerProfile) MatchesUsername(username string) bool {
	needle := strings.ToLower(strings.TrimSpace(username))
	if needle == "" {
		return false
	}
	for _, pattern := range p.EmailPatterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern != "" && strings.Contains(needle, pattern) {
			return true
		}
	}
	return false
}

// StableRecordID derives the deterministic credential record identifier from
// the case-normalized identity triple.
func StableRecordID(owner OwnerID, service, username string) string {
	key := fmt.Sprintf("%s|%s|%s", owner, strings.ToLower(strings.TrimSpace(service)), strings.ToLower(strings.TrimSpace(username)))
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:24]
}
