package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/core/port"
	"github.com/arlanov/hearthpass/internal/repository"
)

const (
	defaultOverridePrefix = "hearth:override"

	fieldReasonCode  = "reason_code"
	fieldProfileHash = "profile_hash"
	fieldProof       = "proof"
	fieldIssuedAt    = "issued_at"
	fieldExpiresAt   = "expires_at"
)

// OverrideTokenStore persists guardian override tokens in Redis. The key is
// the action code, so one slot exists per code and Put overwrites. The key
// TTL mirrors the token expiry, so abandoned approvals evaporate on their
// own.
type OverrideTokenStore struct {
	client *red.Client
	prefix string
	now    func() time.Time
}

// NewOverrideTokenStore constructs the store with the provided Redis client
// and key prefix.
func NewOverrideTokenStore(client *red.Client, keyPrefix string) *OverrideTokenStore {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultOverridePrefix
	}

	return &OverrideTokenStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// WithClock overrides the internal clock, used in tests.
func (s *OverrideTokenStore) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Put stores a token under its action code, replacing any prior token.
func (s *OverrideTokenStore) Put(ctx context.Context, token domain.GuardianOverrideToken) error {
	actionCode := strings.TrimSpace(token.ActionCode)
	if actionCode == "" {
		return errors.New("action code is required")
	}

	ttl := token.ExpiresAt.Sub(s.now().UTC())
	if ttl <= 0 {
		return errors.New("token already expired")
	}

	key := s.key(actionCode)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		fieldReasonCode:  token.ReasonCode,
		fieldProfileHash: token.ProfileHash,
		fieldProof:       token.Proof,
		fieldIssuedAt:    strconv.FormatInt(token.IssuedAt.Unix(), 10),
		fieldExpiresAt:   strconv.FormatInt(token.ExpiresAt.Unix(), 10),
	})
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store override token: %w", err)
	}
	return nil
}

// Get retrieves the token for an action code.
func (s *OverrideTokenStore) Get(ctx context.Context, actionCode string) (*domain.GuardianOverrideToken, error) {
	actionCode = strings.TrimSpace(actionCode)
	if actionCode == "" {
		return nil, errors.New("action code is required")
	}

	values, err := s.client.HGetAll(ctx, s.key(actionCode)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall override token: %w", err)
	}
	if len(values) == 0 {
		return nil, repository.ErrNotFound
	}

	issuedAt, err := parseUnix(values[fieldIssuedAt])
	if err != nil {
		return nil, fmt.Errorf("parse issued_at: %w", err)
	}

	expiresAt, err := parseUnix(values[fieldExpiresAt])
	if err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}

	return &domain.GuardianOverrideToken{
		ActionCode:  actionCode,
		ReasonCode:  values[fieldReasonCode],
		ProfileHash: values[fieldProfileHash],
		Proof:       values[fieldProof],
		IssuedAt:    issuedAt,
		ExpiresAt:   expiresAt,
	}, nil
}

// Delete removes the token slot for an action code. Deleting an absent slot
// is not an error: the outcome is the same.
func (s *OverrideTokenStore) Delete(ctx context.Context, actionCode string) error {
	actionCode = strings.TrimSpace(actionCode)
	if actionCode == "" {
		return errors.New("action code is required")
	}

	if err := s.client.Del(ctx, s.key(actionCode)).Err(); err != nil {
		return fmt.Errorf("redis delete override token: %w", err)
	}
	return nil
}

func (s *OverrideTokenStore) key(actionCode string) string {
	return fmt.Sprintf("%s:%s", s.prefix, actionCode)
}

func parseUnix(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, errors.New("timestamp is empty")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(v, 0).UTC(), nil
}

var _ port.OverrideTokenStore = (*OverrideTokenStore)(nil)
