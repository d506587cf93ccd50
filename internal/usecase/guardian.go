package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/core/port"
	"github.com/arlanov/hearthpass/internal/infra/config"
	"github.com/arlanov/hearthpass/internal/infra/security"
	"github.com/arlanov/hearthpass/internal/repository"
)

// GuardianService issues and checks short-lived, action-scoped override
// tokens. One token slot exists per action code; a scope mismatch during
// validation clears the slot so a fresh approval is required.
type GuardianService struct {
	tokens  port.OverrideTokenStore
	audit   port.AuditPublisher
	proofs  *security.ProofCodec
	logger  *zap.Logger
	now     func() time.Time
	ttl     time.Duration
	pinHash string

	mu sync.Mutex
}

// NewGuardianService constructs a GuardianService.
func NewGuardianService(tokens port.OverrideTokenStore, audit port.AuditPublisher, proofs *security.ProofCodec, cfg config.GuardianSettings, logger *zap.Logger) *GuardianService {
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &GuardianService{
		tokens:  tokens,
		audit:   audit,
		proofs:  proofs,
		logger:  logger,
		now:     time.Now,
		ttl:     ttl,
		pinHash: cfg.PINHash,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *GuardianService) WithClock(now func() time.Time) *GuardianService {
	s.now = now
	return s
}

// IssueOverrideInput describes one approval request.
type IssueOverrideInput struct {
	ActionCode  string
	ReasonCode  string
	ProfileHash string
	// TTL of zero means the configured default; any value is clamped into
	// the permitted window.
	TTL time.Duration
	// PIN is checked against the configured guardian PIN hash when one is
	// set.
	PIN   string
	Actor domain.SessionContext
}

// Issue mints an override token for an action code, overwriting any prior
// token in the slot.
func (s *GuardianService) Issue(ctx context.Context, input IssueOverrideInput) (*domain.GuardianOverrideToken, error) {
	actionCode := strings.TrimSpace(input.ActionCode)
	if actionCode == "" {
		return nil, ErrActionCodeRequired
	}

	if input.Actor.ActorRole != "" && input.Actor.ActorRole != domain.RoleGuardian {
		return nil, ErrGuardianRequired
	}

	if s.pinHash != "" {
		ok, err := security.VerifyPIN(input.PIN, s.pinHash)
		if err != nil {
			return nil, fmt.Errorf("verify guardian pin: %w", err)
		}
		if !ok {
			return nil, ErrGuardianPINMismatch
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ttl := input.TTL
	if ttl == 0 {
		ttl = s.ttl
	}
	ttl = domain.ClampOverrideTTL(ttl)

	now := s.now().UTC()
	token := domain.GuardianOverrideToken{
		ActionCode:  actionCode,
		ReasonCode:  strings.TrimSpace(input.ReasonCode),
		ProfileHash: strings.TrimSpace(input.ProfileHash),
		IssuedAt:    now,
		ExpiresAt:   now.Add(ttl),
	}

	proof, err := s.proofs.Sign(token)
	if err != nil {
		return nil, err
	}
	token.Proof = proof

	if err := s.tokens.Put(ctx, token); err != nil {
		return nil, fmt.Errorf("store override token: %w", err)
	}

	s.publishDecision(ctx, token, domain.OutcomeIssued, input.Actor.ActorRole, now)

	s.logger.Info("override token issued",
		zap.String("action_code", token.ActionCode),
		zap.Duration("ttl", ttl),
	)

	return &token, nil
}

// Validate checks the stored token for an action code against the caller's
// expected scope. Expired tokens are cleared and rejected; a scope mismatch
// clears the slot and rejects. A matching token stays in place and remains
// checkable until expiry.
func (s *GuardianService) Validate(ctx context.Context, actionCode, expectedReason, expectedProfile string) (*domain.GuardianOverrideToken, error) {
	actionCode = strings.TrimSpace(actionCode)
	if actionCode == "" {
		return nil, ErrActionCodeRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.tokens.Get(ctx, actionCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOverrideNotFound
		}
		return nil, fmt.Errorf("load override token: %w", err)
	}

	now := s.now().UTC()

	if token.IsExpired(now) {
		s.clearSlot(ctx, actionCode)
		s.publishDecision(ctx, *token, domain.OutcomeDenied, "", now)
		return nil, ErrOverrideExpired
	}

	if !token.MatchesScope(actionCode, expectedReason, expectedProfile) {
		s.clearSlot(ctx, actionCode)
		s.publishDecision(ctx, *token, domain.OutcomeDenied, "", now)
		return nil, ErrOverrideScopeMismatch
	}

	s.publishDecision(ctx, *token, domain.OutcomeValidated, "", now)
	return token, nil
}

// Clear removes the token slot for an action code, revoking any outstanding
// approval.
func (s *GuardianService) Clear(ctx context.Context, actionCode string) error {
	actionCode = strings.TrimSpace(actionCode)
	if actionCode == "" {
		return ErrActionCodeRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tokens.Delete(ctx, actionCode); err != nil {
		return fmt.Errorf("delete override token: %w", err)
	}

	s.publishDecision(ctx, domain.GuardianOverrideToken{ActionCode: actionCode}, domain.OutcomeCleared, "", s.now().UTC())
	return nil
}

func (s *GuardianService) clearSlot(ctx context.Context, actionCode string) {
	if err := s.tokens.Delete(ctx, actionCode); err != nil {
		s.logger.Warn("clear override token failed",
			zap.String("action_code", actionCode),
			zap.Error(err),
		)
	}
}

func (s *GuardianService) publishDecision(ctx context.Context, token domain.GuardianOverrideToken, outcome string, actorRole domain.OwnerRole, at time.Time) {
	event := domain.GuardianDecisionEvent{
		EventID:    uuid.NewString(),
		ActionCode: token.ActionCode,
		Outcome:    outcome,
		ReasonCode: token.ReasonCode,
		ActorRole:  actorRole,
		At:         at,
	}
	if err := s.audit.PublishGuardianDecision(ctx, event); err != nil {
		s.logger.Warn("publish guardian decision event failed",
			zap.String("outcome", outcome),
			zap.Error(err),
		)
	}
}
