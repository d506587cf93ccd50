package domain

import "time"

// Guardian decision outcomes recorded in the audit trail.
const (
	OutcomeIssued    = "issued"
	OutcomeValidated = "validated"
	OutcomeDenied    = "denied"
	OutcomeCleared   = "cleared"
)

// GuardianDecisionEvent records every issue/validate/deny/clear on the
// override token store.
type GuardianDecisionEvent struct {
	EventID    string
	ActionCode string
	Outcome    string
	ReasonCode string
	ActorRole  OwnerRole
	At         time.Time
	Metadata   map[string]any
}

// RotationPromotedEvent records a pending password being confirmed as
// current on a credential record.
type RotationPromotedEvent struct {
	EventID  string
	RecordID string
	Owner    OwnerID
	Service  string
	Username string
	At       time.Time
	Metadata map[string]any
}

// ActionCompletedEvent records a queue action transitioning to completed
// with its receipt.
type ActionCompletedEvent struct {
	EventID   string
	ActionID  string
	ReceiptID string
	Type      ActionType
	Owner     OwnerID
	Service   string
	At        time.Time
	Metadata  map[string]any
}
