package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arlanov/hearthpass/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse describes the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// PolicyView is the API representation of a resolved password policy.
type PolicyView struct {
	Source                  string `json:"source"`
	MinLength               int    `json:"min_length"`
	MaxLength               int    `json:"max_length"`
	PreferredLength         int    `json:"preferred_length"`
	RequireLower            bool   `json:"require_lower"`
	RequireUpper            bool   `json:"require_upper"`
	RequireDigit            bool   `json:"require_digit"`
	RequireSymbol           bool   `json:"require_symbol"`
	AllowLower              bool   `json:"allow_lower"`
	AllowUpper              bool   `json:"allow_upper"`
	AllowDigit              bool   `json:"allow_digit"`
	AllowSymbol             bool   `json:"allow_symbol"`
	Symbols                 string `json:"symbols,omitempty"`
	StartWithLetter         bool   `json:"start_with_letter"`
	MaxConsecutiveIdentical int    `json:"max_consecutive_identical"`
}

// NewPolicyView maps a domain policy spec onto its API shape.
func NewPolicyView(spec domain.PasswordPolicySpec) PolicyView {
	return PolicyView{
		Source:                  spec.Source,
		MinLength:               spec.MinLength,
		MaxLength:               spec.MaxLength,
		PreferredLength:         spec.PreferredLength,
		RequireLower:            spec.RequireLower,
		RequireUpper:            spec.RequireUpper,
		RequireDigit:            spec.RequireDigit,
		RequireSymbol:           spec.RequireSymbol,
		AllowLower:              spec.AllowLower,
		AllowUpper:              spec.AllowUpper,
		AllowDigit:              spec.AllowDigit,
		AllowSymbol:             spec.AllowSymbol,
		Symbols:                 spec.EffectiveSymbols(),
		StartWithLetter:         spec.StartWithLetter,
		MaxConsecutiveIdentical: spec.MaxConsecutiveIdentical,
	}
}

// PolicyResolveRequest identifies the site to resolve a policy for.
type PolicyResolveRequest struct {
	Service  string `json:"service"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// GeneratePasswordResponse returns a generated password with the policy it
// satisfies.
type GeneratePasswordResponse struct {
	Password string     `json:"password"`
	Policy   PolicyView `json:"policy"`
}

// AssessPasswordRequest carries a candidate password and contextual inputs.
type AssessPasswordRequest struct {
	Password string   `json:"password" binding:"required"`
	Inputs   []string `json:"inputs"`
}

// AssessPasswordResponse reports the weakness verdict.
type AssessPasswordResponse struct {
	Weak bool `json:"weak"`
}

// CredentialView is the API representation of a ledger record. Password
// material is intentionally summarized, not echoed.
type CredentialView struct {
	ID              string     `json:"id"`
	Owner           string     `json:"owner"`
	Service         string     `json:"service"`
	Username        string     `json:"username"`
	URL             string     `json:"url,omitempty"`
	Category        string     `json:"category"`
	Lifecycle       string     `json:"lifecycle"`
	PendingRotation bool       `json:"pending_rotation"`
	HistoryDepth    int        `json:"history_depth"`
	RiskLevel       string     `json:"risk_level,omitempty"`
	RiskReasons     []string   `json:"risk_reasons,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastRotatedAt   *time.Time `json:"last_rotated_at,omitempty"`
}

// NewCredentialView maps a domain record onto its API shape.
func NewCredentialView(record domain.CredentialRecord) CredentialView {
	view := CredentialView{
		ID:              record.ID,
		Owner:           record.Owner.String(),
		Service:         record.Service,
		Username:        record.Username,
		URL:             record.URL,
		Category:        record.Category.String(),
		Lifecycle:       string(record.Lifecycle),
		PendingRotation: record.HasPendingRotation(),
		HistoryDepth:    len(record.PreviousPasswords),
		Notes:           record.Notes,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
		LastRotatedAt:   record.LastRotatedAt,
	}
	if record.Breach.Checked() {
		view.RiskLevel = string(record.Breach.RiskLevel)
		view.RiskReasons = record.Breach.Reasons
	}
	return view
}

// SaveCredentialRequest records an observed site credential.
type SaveCredentialRequest struct {
	Owner    string `json:"owner" binding:"required"`
	Service  string `json:"service" binding:"required"`
	Username string `json:"username" binding:"required"`
	URL      string `json:"url"`
	Category string `json:"category"`
	Password string `json:"password" binding:"required"`
	Notes    string `json:"notes"`
}

// CredentialIdentityRequest addresses one ledger record.
type CredentialIdentityRequest struct {
	Owner    string `json:"owner" binding:"required"`
	Service  string `json:"service" binding:"required"`
	Username string `json:"username" binding:"required"`
}

// PrepareRotationResponse returns the record and its freshly queued password.
type PrepareRotationResponse struct {
	Record          CredentialView `json:"record"`
	PendingPassword string         `json:"pending_password"`
}

// SetLifecycleRequest flags account usage.
type SetLifecycleRequest struct {
	Owner    string `json:"owner" binding:"required"`
	Service  string `json:"service" binding:"required"`
	Username string `json:"username" binding:"required"`
	State    string `json:"state" binding:"required"`
}

// BreachCheckRequest records an external breach-check outcome.
type BreachCheckRequest struct {
	Owner      string `json:"owner" binding:"required"`
	Service    string `json:"service" binding:"required"`
	Username   string `json:"username" binding:"required"`
	PwnedCount int    `json:"pwned_count"`
}

// RiskSummaryResponse aggregates an owner's ledger.
type RiskSummaryResponse struct {
	Total            int `json:"total"`
	Weak             int `json:"weak"`
	Reused           int `json:"reused"`
	Breached         int `json:"breached"`
	PendingRotations int `json:"pending_rotations"`
}

// PreviousPasswordResponse returns the latest distinct history entry.
type PreviousPasswordResponse struct {
	Password string `json:"password"`
}

// ActionView is the API representation of a queue action.
type ActionView struct {
	ID          string     `json:"id"`
	Owner       string     `json:"owner"`
	Category    string     `json:"category"`
	Service     string     `json:"service"`
	Username    string     `json:"username"`
	TargetURL   string     `json:"target_url,omitempty"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Detail      string     `json:"detail,omitempty"`
	UrgencyRank int        `json:"urgency_rank"`
	CreatedAt   time.Time  `json:"created_at"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ReceiptID   string     `json:"receipt_id,omitempty"`
}

// NewActionView maps a domain action onto its API shape.
func NewActionView(action domain.RotationAction, now time.Time) ActionView {
	view := ActionView{
		ID:          action.ID,
		Owner:       action.Owner.String(),
		Category:    action.Category.String(),
		Service:     action.Service,
		Username:    action.Username,
		TargetURL:   action.TargetURL,
		Type:        string(action.Type),
		Status:      string(action.Status),
		Detail:      action.Detail,
		UrgencyRank: action.UrgencyRank(now),
		CreatedAt:   action.CreatedAt,
		CompletedAt: action.CompletedAt,
		ReceiptID:   action.ReceiptID,
	}
	if !action.DueAt.IsZero() {
		dueAt := action.DueAt
		view.DueAt = &dueAt
	}
	return view
}

// AppendActionRequest queues one account action.
type AppendActionRequest struct {
	Owner              string `json:"owner" binding:"required"`
	Service            string `json:"service" binding:"required"`
	Username           string `json:"username" binding:"required"`
	Type               string `json:"type" binding:"required"`
	Detail             string `json:"detail"`
	OverrideActionCode string `json:"override_action_code"`
}

// CompleteActionRequest finishes a queue action.
type CompleteActionRequest struct {
	ReceiptID string `json:"receipt_id"`
}

// OverrideTokenView is the API representation of an issued override token.
type OverrideTokenView struct {
	ActionCode  string    `json:"action_code"`
	ReasonCode  string    `json:"reason_code,omitempty"`
	ProfileHash string    `json:"profile_hash,omitempty"`
	Proof       string    `json:"proof"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewOverrideTokenView maps a domain token onto its API shape.
func NewOverrideTokenView(token domain.GuardianOverrideToken) OverrideTokenView {
	return OverrideTokenView{
		ActionCode:  token.ActionCode,
		ReasonCode:  token.ReasonCode,
		ProfileHash: token.ProfileHash,
		Proof:       token.Proof,
		IssuedAt:    token.IssuedAt,
		ExpiresAt:   token.ExpiresAt,
	}
}

// IssueOverrideRequest mints an override token. ProfileID is hashed
// server-side when profile_hash is not supplied directly.
type IssueOverrideRequest struct {
	ActionCode  string `json:"action_code" binding:"required"`
	ReasonCode  string `json:"reason_code"`
	ProfileHash string `json:"profile_hash"`
	ProfileID   string `json:"profile_id"`
	TTLSeconds  int    `json:"ttl_seconds"`
	PIN         string `json:"pin"`
	ActorRole   string `json:"actor_role"`
}

// ValidateOverrideRequest checks an override token's scope.
type ValidateOverrideRequest struct {
	ActionCode  string `json:"action_code" binding:"required"`
	ReasonCode  string `json:"reason_code"`
	ProfileHash string `json:"profile_hash"`
	ProfileID   string `json:"profile_id"`
}

// OwnerProfileView is the API representation of a household member.
type OwnerProfileView struct {
	ID               string   `json:"id"`
	DisplayName      string   `json:"display_name,omitempty"`
	Role             string   `json:"role"`
	EmailPatterns    []string `json:"email_patterns,omitempty"`
	RecordLimit      int      `json:"record_limit"`
	QueueActionLimit int      `json:"queue_action_limit"`
}

// NewOwnerProfileView maps a domain profile onto its API shape.
func NewOwnerProfileView(profile domain.OwnerProfile) OwnerProfileView {
	return OwnerProfileView{
		ID:               profile.ID.String(),
		DisplayName:      profile.DisplayName,
		Role:             string(profile.Role),
		EmailPatterns:    profile.EmailPatterns,
		RecordLimit:      profile.RecordLimit,
		QueueActionLimit: profile.QueueActionLimit,
	}
}

// ResolveOwnerRequest attributes a username to a household member.
type ResolveOwnerRequest struct {
	Username string `json:"username" binding:"required"`
}

// ResolveOwnerResponse names the matched member.
type ResolveOwnerResponse struct {
	Owner string `json:"owner"`
}
