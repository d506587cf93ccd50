package usecase

import (
	"context"
	"sort"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/repository"
)

// In-memory collaborators shared across the usecase tests.

type credRepoMock struct {
	records map[string]domain.CredentialRecord
	saveErr error
	listErr error
}

func newCredRepoMock() *credRepoMock {
	return &credRepoMock{records: make(map[string]domain.CredentialRecord)}
}

func (m *credRepoMock) GetByID(_ context.Context, id string) (*domain.CredentialRecord, error) {
	if record, ok := m.records[id]; ok {
		return &record, nil
	}
	return nil, repository.ErrNotFound
}

func (m *credRepoMock) GetByIdentity(ctx context.Context, owner domain.OwnerID, service, username string) (*domain.CredentialRecord, error) {
	return m.GetByID(ctx, domain.StableRecordID(owner, service, username))
}

func (m *credRepoMock) ListByOwner(_ context.Context, owner domain.OwnerID) ([]domain.CredentialRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.CredentialRecord
	for _, record := range m.records {
		if record.Owner == owner {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *credRepoMock) CountByOwner(ctx context.Context, owner domain.OwnerID) (int, error) {
	records, err := m.ListByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (m *credRepoMock) Save(_ context.Context, record domain.CredentialRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[record.ID] = record
	return nil
}

type queueRepoMock struct {
	actions   map[string]domain.RotationAction
	appendErr error
	updateErr error
}

func newQueueRepoMock() *queueRepoMock {
	return &queueRepoMock{actions: make(map[string]domain.RotationAction)}
}

func (m *queueRepoMock) Append(_ context.Context, action domain.RotationAction) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.actions[action.ID] = action
	return nil
}

func (m *queueRepoMock) GetActive(_ context.Context, actionID string) (*domain.RotationAction, error) {
	action, ok := m.actions[actionID]
	if !ok || action.Status == domain.ActionCompleted {
		return nil, repository.ErrNotFound
	}
	return &action, nil
}

func (m *queueRepoMock) List(_ context.Context) ([]domain.RotationAction, error) {
	var out []domain.RotationAction
	for _, action := range m.actions {
		out = append(out, action)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *queueRepoMock) ListByOwner(_ context.Context, owner domain.OwnerID) ([]domain.RotationAction, error) {
	var out []domain.RotationAction
	for _, action := range m.actions {
		if action.Owner == owner {
			out = append(out, action)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *queueRepoMock) CountPendingByOwner(_ context.Context, owner domain.OwnerID) (int, error) {
	count := 0
	for _, action := range m.actions {
		if action.Owner == owner && action.Status != domain.ActionCompleted {
			count++
		}
	}
	return count, nil
}

func (m *queueRepoMock) Update(_ context.Context, action domain.RotationAction) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.actions[action.ID]; !ok {
		return repository.ErrNotFound
	}
	m.actions[action.ID] = action
	return nil
}

type directoryMock struct {
	profiles map[domain.OwnerID]domain.OwnerProfile
}

func newDirectoryMock(profiles ...domain.OwnerProfile) *directoryMock {
	m := &directoryMock{profiles: make(map[domain.OwnerID]domain.OwnerProfile, len(profiles))}
	for _, p := range profiles {
		m.profiles[p.ID] = p
	}
	return m
}

func (m *directoryMock) Profile(_ context.Context, owner domain.OwnerID) (*domain.OwnerProfile, error) {
	profile, ok := m.profiles[owner]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &profile, nil
}

func (m *directoryMock) Profiles(_ context.Context) ([]domain.OwnerProfile, error) {
	out := make([]domain.OwnerProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type tokenStoreMock struct {
	tokens map[string]domain.GuardianOverrideToken
	putErr error
}

func newTokenStoreMock() *tokenStoreMock {
	return &tokenStoreMock{tokens: make(map[string]domain.GuardianOverrideToken)}
}

func (m *tokenStoreMock) Put(_ context.Context, token domain.GuardianOverrideToken) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.tokens[token.ActionCode] = token
	return nil
}

func (m *tokenStoreMock) Get(_ context.Context, actionCode string) (*domain.GuardianOverrideToken, error) {
	token, ok := m.tokens[actionCode]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &token, nil
}

func (m *tokenStoreMock) Delete(_ context.Context, actionCode string) error {
	delete(m.tokens, actionCode)
	return nil
}

type auditMock struct {
	decisions   []domain.GuardianDecisionEvent
	promotions  []domain.RotationPromotedEvent
	completions []domain.ActionCompletedEvent
}

func (m *auditMock) PublishGuardianDecision(_ context.Context, event domain.GuardianDecisionEvent) error {
	m.decisions = append(m.decisions, event)
	return nil
}

func (m *auditMock) PublishRotationPromoted(_ context.Context, event domain.RotationPromotedEvent) error {
	m.promotions = append(m.promotions, event)
	return nil
}

func (m *auditMock) PublishActionCompleted(_ context.Context, event domain.ActionCompletedEvent) error {
	m.completions = append(m.completions, event)
	return nil
}
