package domain

import (
	"strings"
	"time"
)

// LifecycleState tracks whether the household still uses an account.
type LifecycleState string

const (
	LifecycleActive        LifecycleState = "active"
	LifecycleReviewLater   LifecycleState = "review_later"
	LifecycleRetirePending LifecycleState = "retire_pending"
	LifecycleInactive      LifecycleState = "inactive"
)

// ParseLifecycleState maps a stored lifecycle string onto the closed set,
// defaulting to active.
func ParseLifecycleState(raw string) LifecycleState {
	switch LifecycleState(strings.ToLower(strings.TrimSpace(raw))) {
	case LifecycleReviewLater:
		return LifecycleReviewLater
	case LifecycleRetirePending:
		return LifecycleRetirePending
	case LifecycleInactive:
		return LifecycleInactive
	default:
		return LifecycleActive
	}
}

// RiskLevel summarizes the breach exposure of a credential.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// BreachStatus carries the latest recorded breach-check result. The check
// itself is an external collaborator; only its outcome is stored here.
type BreachStatus struct {
	PwnedCount int
	CheckedAt  time.Time
	RiskLevel  RiskLevel
	Reasons    []string
}

// Checked reports whether a breach check result has ever been recorded.
func (b BreachStatus) Checked() bool {
	return !b.CheckedAt.IsZero()
}

// CredentialRecord is the durable record of one site credential and its
// rotation state. Identity is the case-normalized (owner, service, username)
// triple; ID is the stable fingerprint of that triple.
type CredentialRecord struct {
	ID       string
	Owner    OwnerID
	Service  string
	Username string
	URL      string
	Category Category

	CurrentPassword string
	// PendingPassword is non-empty exactly while a rotation is queued.
	PendingPassword string
	// PreviousPasswords is ordered most recent first and only ever grows.
	PreviousPasswords []string

	Lifecycle LifecycleState
	Breach    BreachStatus
	Notes     string

	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastRotatedAt *time.Time
}

// NewCredentialRecord builds a record with a normalized identity and derived
// stable ID.
func NewCredentialRecord(owner OwnerID, category Category, service, username, url, password string, at time.Time) CredentialRecord {
	service = strings.TrimSpace(service)
	username = strings.TrimSpace(username)
	return CredentialRecord{
		ID:              StableRecordID(owner, service, username),
		Owner:           owner,
		Service:         service,
		Username:        username,
		URL:             strings.TrimSpace(url),
		Category:        category,
		CurrentPassword: password,
		Lifecycle:       LifecycleActive,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
}

// HasPendingRotation reports whether a next password has been queued but not
// yet confirmed on the target site.
func (r CredentialRecord) HasPendingRotation() bool {
	return r.PendingPassword != ""
}

// QueueRotation stores the next password without touching history; the old
// value stays current until promotion.
func (r *CredentialRecord) QueueRotation(next string, at time.Time) {
	r.PendingPassword = next
	r.UpdatedAt = at
	atCopy := at
	r.LastRotatedAt = &atCopy
}

// PromotePending moves the queued password into place, pushing the previous
// current password onto the front of the history. Returns false and leaves
// the record untouched when no rotation is queued.
func (r *CredentialRecord) PromotePending(at time.Time) bool {
	if r.PendingPassword == "" {
		return false
	}
	r.PreviousPasswords = append([]string{r.CurrentPassword}, r.PreviousPasswords...)
	r.CurrentPassword = r.PendingPassword
	r.PendingPassword = ""
	r.UpdatedAt = at
	return true
}

// LatestDistinctPrevious returns the most recent history entry that differs
// from the current password, or empty string when none exists.
func (r CredentialRecord) LatestDistinctPrevious() string {
	for _, prev := range r.PreviousPasswords {
		if prev != r.CurrentPassword {
			return prev
		}
	}
	return ""
}
