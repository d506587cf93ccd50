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
	"github.com/arlanov/hearthpass/internal/infra/password"
	"github.com/arlanov/hearthpass/internal/repository"
)

// LedgerService owns the credential ledger: upserts of observed passwords,
// the two-phase rotation state machine, lifecycle flags, and breach status.
// All mutators run under a single mutex so concurrent callers cannot
// interleave a read-modify-write on the same record.
type LedgerService struct {
	records    port.CredentialRepository
	directory  port.OwnerDirectory
	audit      port.AuditPublisher
	policies   *PolicyService
	classifier *ClassifierService
	logger     *zap.Logger
	now        func() time.Time

	mu sync.Mutex
}

// NewLedgerService constructs a LedgerService.
func NewLedgerService(records port.CredentialRepository, directory port.OwnerDirectory, audit port.AuditPublisher, policies *PolicyService, classifier *ClassifierService, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		records:    records,
		directory:  directory,
		audit:      audit,
		policies:   policies,
		classifier: classifier,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.now = now
	return s
}

// SaveCredentialInput captures one observed site credential.
type SaveCredentialInput struct {
	Owner    string
	Service  string
	Username string
	URL      string
	// Category is an optional hint; blank means classify from URL and service.
	Category string
	Password string
	Notes    string
}

// SaveCurrent records the observed current password for an identity,
// creating the record on first sight. An existing record keeps its queued
// pending password untouched; a changed current password pushes the old one
// onto the history.
func (s *LedgerService) SaveCurrent(ctx context.Context, input SaveCredentialInput) (*domain.CredentialRecord, error) {
	owner := domain.NormalizeOwnerID(input.Owner)
	if owner == "" {
		return nil, ErrOwnerUnresolved
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()

	existing, err := s.records.GetByIdentity(ctx, owner, input.Service, input.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load credential record: %w", err)
	}

	if existing != nil {
		if input.Password != "" && input.Password != existing.CurrentPassword {
			existing.PreviousPasswords = append([]string{existing.CurrentPassword}, existing.PreviousPasswords...)
			existing.CurrentPassword = input.Password
		}
		if input.URL != "" {
			existing.URL = input.URL
		}
		if input.Notes != "" {
			existing.Notes = input.Notes
		}
		existing.UpdatedAt = now

		if err := s.records.Save(ctx, *existing); err != nil {
			return nil, fmt.Errorf("save credential record: %w", err)
		}
		return existing, nil
	}

	if err := s.enforceRecordLimit(ctx, owner); err != nil {
		return nil, err
	}

	category := domain.ParseCategory(input.Category)
	if input.Category == "" {
		category = s.classifier.ResolveCategory(input.URL, input.Service)
	}

	record := domain.NewCredentialRecord(owner, category, input.Service, input.Username, input.URL, input.Password, now)
	record.Notes = input.Notes

	if err := s.records.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save credential record: %w", err)
	}

	s.logger.Info("credential record created",
		zap.String("record_id", record.ID),
		zap.String("category", record.Category.String()),
	)

	return &record, nil
}

func (s *LedgerService) enforceRecordLimit(ctx context.Context, owner domain.OwnerID) error {
	profile, err := s.directory.Profile(ctx, owner)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("load owner profile: %w", err)
	}

	if profile.RecordLimit <= 0 {
		return nil
	}

	count, err := s.records.CountByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("count credential records: %w", err)
	}
	if count >= profile.RecordLimit {
		return fmt.Errorf("%w: %d records", ErrRecordLimitExceeded, count)
	}
	return nil
}

// GetRecord loads a credential record by identity.
func (s *LedgerService) GetRecord(ctx context.Context, owner domain.OwnerID, service, username string) (*domain.CredentialRecord, error) {
	record, err := s.records.GetByIdentity(ctx, owner, service, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("load credential record: %w", err)
	}
	return record, nil
}

// ListRecords returns every record an owner holds.
func (s *LedgerService) ListRecords(ctx context.Context, owner domain.OwnerID) ([]domain.CredentialRecord, error) {
	records, err := s.records.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list credential records: %w", err)
	}
	return records, nil
}

// PrepareRotation resolves the site's password policy, generates a compliant
// next password, and queues it on the record. The current password stays in
// place until promotion.
func (s *LedgerService) PrepareRotation(ctx context.Context, owner domain.OwnerID, service, username string) (*domain.CredentialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.GetRecord(ctx, owner, service, username)
	if err != nil {
		return nil, err
	}

	next, spec, err := s.policies.GeneratePassword(record.Service, record.URL, record.Category.String())
	if err != nil {
		return nil, err
	}

	record.QueueRotation(next, s.now().UTC())

	if err := s.records.Save(ctx, *record); err != nil {
		return nil, fmt.Errorf("save credential record: %w", err)
	}

	s.logger.Info("rotation prepared",
		zap.String("record_id", record.ID),
		zap.String("policy_source", spec.Source),
	)

	return record, nil
}

// PromotePendingToCurrent confirms a queued password was applied on the site:
// the pending value becomes current and the old current joins the history.
func (s *LedgerService) PromotePendingToCurrent(ctx context.Context, owner domain.OwnerID, service, username string) (*domain.CredentialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.GetRecord(ctx, owner, service, username)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if !record.PromotePending(now) {
		return nil, ErrNoPendingRotation
	}

	if err := s.records.Save(ctx, *record); err != nil {
		return nil, fmt.Errorf("save credential record: %w", err)
	}

	event := domain.RotationPromotedEvent{
		EventID:  uuid.NewString(),
		RecordID: record.ID,
		Owner:    record.Owner,
		Service:  record.Service,
		Username: record.Username,
		At:       now,
	}
	if err := s.audit.PublishRotationPromoted(ctx, event); err != nil {
		s.logger.Warn("publish rotation promoted event failed", zap.Error(err))
	}

	return record, nil
}

// SetLifecycle flags how actively the household still uses the account.
func (s *LedgerService) SetLifecycle(ctx context.Context, owner domain.OwnerID, service, username string, state domain.LifecycleState) (*domain.CredentialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.GetRecord(ctx, owner, service, username)
	if err != nil {
		return nil, err
	}

	record.Lifecycle = state
	record.UpdatedAt = s.now().UTC()

	if err := s.records.Save(ctx, *record); err != nil {
		return nil, fmt.Errorf("save credential record: %w", err)
	}
	return record, nil
}

// UpdateBreachStatus records an external breach-check outcome and derives the
// record's risk level from it plus local weakness and reuse signals.
func (s *LedgerService) UpdateBreachStatus(ctx context.Context, owner domain.OwnerID, service, username string, pwnedCount int) (*domain.CredentialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.GetRecord(ctx, owner, service, username)
	if err != nil {
		return nil, err
	}

	siblings, err := s.records.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list credential records: %w", err)
	}

	now := s.now().UTC()
	record.Breach = assessBreach(*record, siblings, pwnedCount, now)
	record.UpdatedAt = now

	if err := s.records.Save(ctx, *record); err != nil {
		return nil, fmt.Errorf("save credential record: %w", err)
	}
	return record, nil
}

// assessBreach folds the external pwned count together with weakness and
// cross-record reuse into a risk level. A confirmed breach is always high;
// any local signal alone is medium.
func assessBreach(record domain.CredentialRecord, siblings []domain.CredentialRecord, pwnedCount int, at time.Time) domain.BreachStatus {
	var reasons []string

	if pwnedCount > 0 {
		reasons = append(reasons, "breached")
	}
	if password.IsWeak(record.CurrentPassword, record.Username, record.Service) {
		reasons = append(reasons, "weak")
	}
	if passwordReused(record, siblings) {
		reasons = append(reasons, "reused")
	}

	level := domain.RiskLow
	switch {
	case pwnedCount > 0:
		level = domain.RiskHigh
	case len(reasons) > 0:
		level = domain.RiskMedium
	}

	return domain.BreachStatus{
		PwnedCount: pwnedCount,
		CheckedAt:  at,
		RiskLevel:  level,
		Reasons:    reasons,
	}
}

func passwordReused(record domain.CredentialRecord, siblings []domain.CredentialRecord) bool {
	for _, other := range siblings {
		if other.ID == record.ID {
			continue
		}
		if other.CurrentPassword != "" && other.CurrentPassword == record.CurrentPassword {
			return true
		}
	}
	return false
}

// RiskSummary aggregates the owner's ledger into household-facing counts.
type RiskSummary struct {
	Total            int
	Weak             int
	Reused           int
	Breached         int
	PendingRotations int
}

// SummarizeRisk computes the risk summary across every record an owner
// holds.
func (s *LedgerService) SummarizeRisk(ctx context.Context, owner domain.OwnerID) (RiskSummary, error) {
	records, err := s.records.ListByOwner(ctx, owner)
	if err != nil {
		return RiskSummary{}, fmt.Errorf("list credential records: %w", err)
	}

	usage := make(map[string]int, len(records))
	for _, record := range records {
		if record.CurrentPassword != "" {
			usage[record.CurrentPassword]++
		}
	}

	summary := RiskSummary{Total: len(records)}
	for _, record := range records {
		if password.IsWeak(record.CurrentPassword, record.Username, record.Service) {
			summary.Weak++
		}
		if record.CurrentPassword != "" && usage[record.CurrentPassword] > 1 {
			summary.Reused++
		}
		if record.Breach.Checked() && record.Breach.PwnedCount > 0 {
			summary.Breached++
		}
		if record.HasPendingRotation() {
			summary.PendingRotations++
		}
	}

	return summary, nil
}

// LatestDistinctPreviousPassword returns the most recent history entry that
// differs from the current password, for site recovery flows.
func (s *LedgerService) LatestDistinctPreviousPassword(ctx context.Context, owner domain.OwnerID, service, username string) (string, error) {
	record, err := s.GetRecord(ctx, owner, service, username)
	if err != nil {
		return "", err
	}
	return record.LatestDistinctPrevious(), nil
}
