package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/core/port"
	"github.com/arlanov/hearthpass/internal/infra/policy"
	"github.com/arlanov/hearthpass/internal/repository"
)

const defaultDueWindow = 72 * time.Hour

// RotationService owns the append-only action queue: queuing rotate and
// delete actions, completing them with receipts, and returning the queue in
// deterministic priority order. Mutators run under a single mutex.
type RotationService struct {
	queue      port.RotationQueueRepository
	records    port.CredentialRepository
	directory  port.OwnerDirectory
	audit      port.AuditPublisher
	classifier *ClassifierService
	guardian   *GuardianService
	profiles   policy.SiteProfiles
	logger     *zap.Logger
	now        func() time.Time
	dueWindow  time.Duration

	mu sync.Mutex
}

// NewRotationService constructs a RotationService. A nil guardian disables
// override gating of destructive actions.
func NewRotationService(queue port.RotationQueueRepository, records port.CredentialRepository, directory port.OwnerDirectory, audit port.AuditPublisher, classifier *ClassifierService, guardian *GuardianService, profiles policy.SiteProfiles, dueWindow time.Duration, logger *zap.Logger) *RotationService {
	if dueWindow <= 0 {
		dueWindow = defaultDueWindow
	}
	return &RotationService{
		queue:      queue,
		records:    records,
		directory:  directory,
		audit:      audit,
		classifier: classifier,
		guardian:   guardian,
		profiles:   profiles,
		logger:     logger,
		now:        time.Now,
		dueWindow:  dueWindow,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *RotationService) WithClock(now func() time.Time) *RotationService {
	s.now = now
	return s
}

// AppendActionInput describes one action to queue.
type AppendActionInput struct {
	Owner    string
	Service  string
	Username string
	Type     string
	Detail   string
	// OverrideActionCode references a guardian override token. Required when
	// the owner's role gates destructive actions.
	OverrideActionCode string
}

// AppendAction queues an account action. The action id is the deterministic
// fingerprint of its identity tuple; a second append while the first is still
// pending is rejected as a duplicate.
func (s *RotationService) AppendAction(ctx context.Context, input AppendActionInput) (*domain.RotationAction, error) {
	owner := domain.NormalizeOwnerID(input.Owner)
	if owner == "" {
		return nil, ErrOwnerUnresolved
	}

	actionType := domain.ParseActionType(input.Type)
	if actionType == domain.ActionUnknown {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionType, input.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.ActionFingerprint(owner.HashKey(), input.Service, input.Username, actionType)

	if _, err := s.queue.GetActive(ctx, id); err == nil {
		return nil, ErrDuplicatePendingAction
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check active action: %w", err)
	}

	profile, err := s.directory.Profile(ctx, owner)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("load owner profile: %w", err)
	}

	if err := s.checkGuardianGate(ctx, *profile, actionType, input.OverrideActionCode); err != nil {
		return nil, err
	}

	if err := s.enforceQueueLimit(ctx, *profile); err != nil {
		return nil, err
	}

	now := s.now().UTC()

	action := domain.RotationAction{
		ID:        id,
		Owner:     owner,
		Service:   input.Service,
		Username:  input.Username,
		Type:      actionType,
		Status:    domain.ActionPending,
		Detail:    input.Detail,
		CreatedAt: now,
		UpdatedAt: now,
		DueAt:     now.Add(s.dueWindow),
	}

	if record, err := s.records.GetByIdentity(ctx, owner, input.Service, input.Username); err == nil {
		action.Category = record.Category
		action.URL = record.URL
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load credential record: %w", err)
	} else {
		action.Category = s.classifier.ResolveCategory("", input.Service)
	}

	action.TargetURL = s.profiles.TargetURL(actionType, action.URL)

	if err := s.queue.Append(ctx, action); err != nil {
		return nil, fmt.Errorf("append queue action: %w", err)
	}

	s.logger.Info("queue action appended",
		zap.String("action_id", action.ID),
		zap.String("action_type", string(action.Type)),
		zap.String("category", action.Category.String()),
		zap.Time("due_at", action.DueAt),
	)

	return &action, nil
}

// checkGuardianGate requires a validated override token before a minor or
// unclassified member can queue an account deletion.
func (s *RotationService) checkGuardianGate(ctx context.Context, profile domain.OwnerProfile, actionType domain.ActionType, overrideActionCode string) error {
	if s.guardian == nil || actionType != domain.ActionDeleteAccount {
		return nil
	}
	if !profile.Role.RequiresGuardianApproval() {
		return nil
	}
	if overrideActionCode == "" {
		return ErrGuardianApprovalRequired
	}
	if _, err := s.guardian.Validate(ctx, overrideActionCode, "", ""); err != nil {
		return fmt.Errorf("%w: %w", ErrGuardianApprovalRequired, err)
	}
	return nil
}

func (s *RotationService) enforceQueueLimit(ctx context.Context, profile domain.OwnerProfile) error {
	if profile.QueueActionLimit <= 0 {
		return nil
	}

	pending, err := s.queue.CountPendingByOwner(ctx, profile.ID)
	if err != nil {
		return fmt.Errorf("count pending actions: %w", err)
	}
	if pending >= profile.QueueActionLimit {
		return fmt.Errorf("%w: %d pending", ErrQueueLimitExceeded, pending)
	}
	return nil
}

// CompleteAction transitions a pending action to completed with a receipt.
// A blank receipt gets a generated one, so completion always leaves a trail.
func (s *RotationService) CompleteAction(ctx context.Context, actionID, receiptID string) (*domain.RotationAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	action, err := s.queue.GetActive(ctx, actionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActionNotFound
		}
		return nil, fmt.Errorf("load queue action: %w", err)
	}

	if receiptID == "" {
		receiptID = uuid.NewString()
	}

	now := s.now().UTC()
	if !action.Complete(receiptID, now) {
		return nil, ErrActionNotFound
	}

	if err := s.queue.Update(ctx, *action); err != nil {
		return nil, fmt.Errorf("update queue action: %w", err)
	}

	event := domain.ActionCompletedEvent{
		EventID:   uuid.NewString(),
		ActionID:  action.ID,
		ReceiptID: action.ReceiptID,
		Type:      action.Type,
		Owner:     action.Owner,
		Service:   action.Service,
		At:        now,
	}
	if err := s.audit.PublishActionCompleted(ctx, event); err != nil {
		s.logger.Warn("publish action completed event failed", zap.Error(err))
	}

	return action, nil
}

// ListQueue returns the whole queue in priority order.
func (s *RotationService) ListQueue(ctx context.Context) ([]domain.RotationAction, error) {
	actions, err := s.queue.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list queue actions: %w", err)
	}
	return Prioritize(actions, s.now().UTC(), domain.DefaultCategoryOrder), nil
}

// ListOwnerQueue returns one owner's actions in priority order.
func (s *RotationService) ListOwnerQueue(ctx context.Context, owner domain.OwnerID) ([]domain.RotationAction, error) {
	actions, err := s.queue.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list queue actions: %w", err)
	}
	return Prioritize(actions, s.now().UTC(), domain.DefaultCategoryOrder), nil
}
