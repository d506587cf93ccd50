package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// ActionType is the closed set of queued account actions.
type ActionType string

const (
	ActionRotatePassword ActionType = "rotate_password"
	ActionDeleteAccount  ActionType = "delete_account"
	ActionUnknown        ActionType = "unknown"
)

// ParseActionType maps a stored action type onto the closed enumeration.
func ParseActionType(raw string) ActionType {
	switch ActionType(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionRotatePassword:
		return ActionRotatePassword
	case ActionDeleteAccount:
		return ActionDeleteAccount
	default:
		return ActionUnknown
	}
}

// ActionStatus is the rotation action lifecycle state.
type ActionStatus string

const (
	ActionPending   ActionStatus = "pending"
	ActionCompleted ActionStatus = "completed"
)

// Urgency ranks, most urgent first.
const (
	RankOverdueHighPriority = 0
	RankOverdue             = 1
	RankHighPriority        = 2
	RankDefault             = 3
	RankCompleted           = 4
)

// ActionFingerprint derives the deterministic action identifier from the
// owner hash key and the action's identity tuple. Re-queuing the same tuple
// yields the same identifier, which is what makes appends idempotent.
func ActionFingerprint(ownerHashKey, service, username string, actionType ActionType) string {
	key := fmt.Sprintf("%s|%s|%s|%s", ownerHashKey, strings.ToLower(strings.TrimSpace(service)), strings.ToLower(strings.TrimSpace(username)), actionType)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:20]
}

// RotationAction is one queued account action tied to a credential record by
// the (owner, service, username) triple. Actions are appended once and only
// ever mutated in place to completed.
type RotationAction struct {
	ID       string
	Owner    OwnerID
	Category Category
	Service  string
	Username string
	URL      string
	// TargetURL is the site-profile change-password or deletion URL when one
	// is configured, otherwise the record URL.
	TargetURL string
	Type      ActionType
	Status    ActionStatus
	Detail    string

	CreatedAt time.Time
	UpdatedAt time.Time
	// DueAt is zero when the action has no due date.
	DueAt       time.Time
	CompletedAt *time.Time
	// ReceiptID is non-empty exactly when Status is completed.
	ReceiptID string
}

// IsOverdue reports whether a non-completed action has slipped past its due
// date.
func (a RotationAction) IsOverdue(now time.Time) bool {
	return a.Status != ActionCompleted && !a.DueAt.IsZero() && a.DueAt.Before(now)
}

// UrgencyRank computes the prioritization tier (0 = most urgent) used to
// order the queue for display and processing.
func (a RotationAction) UrgencyRank(now time.Time) int {
	if a.Status == ActionCompleted {
		return RankCompleted
	}
	overdue := a.IsOverdue(now)
	high := a.Category.HighPriority()
	switch {
	case overdue && high:
		return RankOverdueHighPriority
	case overdue:
		return RankOverdue
	case high:
		return RankHighPriority
	default:
		return RankDefault
	}
}

// Complete transitions the action to completed with the supplied receipt.
// Returns false when the action is already completed.
func (a *RotationAction) Complete(receiptID string, at time.Time) bool {
	if a.Status == ActionCompleted {
		return false
	}
	a.Status = ActionCompleted
	a.ReceiptID = receiptID
	atCopy := at
	a.CompletedAt = &atCopy
	a.UpdatedAt = at
	return true
}
