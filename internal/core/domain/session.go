package domain

// SessionContext carries the caller's session state into each operation
// explicitly, so tests can construct arbitrary states without shared
// globals.
type SessionContext struct {
	ActorID   OwnerID
	ActorRole OwnerRole
	// DeviceLabel identifies the device the request originated from; it is
	// informational only.
	DeviceLabel string
	// Unlocked reports whether the local vault has been opened during this
	// session.
	Unlocked bool
}

// GuardianGated reports whether sensitive mutations made under this session
// must present a guardian override token.
func (s SessionContext) GuardianGated() bool {
	return s.ActorRole.RequiresGuardianApproval()
}
