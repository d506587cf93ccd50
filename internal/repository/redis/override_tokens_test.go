package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/repository"
)

func newTestRedis(t *testing.T) (*red.Client, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := red.NewClient(&red.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})

	return client, server
}

func testToken(now time.Time) domain.GuardianOverrideToken {
	return domain.GuardianOverrideToken{
		ActionCode:  "delete-netflix",
		ReasonCode:  "subscription_cleanup",
		ProfileHash: "abc123",
		Proof:       "signed-proof",
		IssuedAt:    now,
		ExpiresAt:   now.Add(5 * time.Minute),
	}
}

func TestOverrideTokenStore_PutAndGet(t *testing.T) {
	client, server := newTestRedis(t)
	store := NewOverrideTokenStore(client, "hearth:override")

	now := time.Now().UTC().Truncate(time.Second)
	store.WithClock(func() time.Time { return now })

	token := testToken(now)
	if err := store.Put(context.Background(), token); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err := store.Get(context.Background(), "delete-netflix")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.ReasonCode != token.ReasonCode {
		t.Fatalf("expected reason %s, got %s", token.ReasonCode, got.ReasonCode)
	}
	if got.ProfileHash != token.ProfileHash {
		t.Fatalf("expected profile hash %s, got %s", token.ProfileHash, got.ProfileHash)
	}
	if got.Proof != token.Proof {
		t.Fatalf("expected proof carried through, got %s", got.Proof)
	}
	if !got.ExpiresAt.Equal(token.ExpiresAt) {
		t.Fatalf("expected expiry %v, got %v", token.ExpiresAt, got.ExpiresAt)
	}

	remaining := server.TTL("hearth:override:delete-netflix")
	if remaining <= 0 || remaining > 5*time.Minute {
		t.Fatalf("expected key ttl within (0, 5m], got %v", remaining)
	}
}

func TestOverrideTokenStore_PutOverwritesSlot(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewOverrideTokenStore(client, "")

	now := time.Now().UTC().Truncate(time.Second)
	store.WithClock(func() time.Time { return now })

	first := testToken(now)
	if err := store.Put(context.Background(), first); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	second := first
	second.ReasonCode = "replacement"
	if err := store.Put(context.Background(), second); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err := store.Get(context.Background(), "delete-netflix")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.ReasonCode != "replacement" {
		t.Fatalf("expected the later token to win, got %s", got.ReasonCode)
	}
}

func TestOverrideTokenStore_PutRejectsExpired(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewOverrideTokenStore(client, "")

	now := time.Now().UTC()
	store.WithClock(func() time.Time { return now })

	token := testToken(now)
	token.ExpiresAt = now.Add(-time.Minute)

	if err := store.Put(context.Background(), token); err == nil {
		t.Fatalf("expected storing an already expired token to fail")
	}
}

func TestOverrideTokenStore_KeyExpiry(t *testing.T) {
	client, server := newTestRedis(t)
	store := NewOverrideTokenStore(client, "")

	now := time.Now().UTC().Truncate(time.Second)
	store.WithClock(func() time.Time { return now })

	if err := store.Put(context.Background(), testToken(now)); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	server.FastForward(6 * time.Minute)

	if _, err := store.Get(context.Background(), "delete-netflix"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after key expiry, got %v", err)
	}
}

func TestOverrideTokenStore_Delete(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewOverrideTokenStore(client, "")

	now := time.Now().UTC().Truncate(time.Second)
	store.WithClock(func() time.Time { return now })

	if err := store.Put(context.Background(), testToken(now)); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := store.Delete(context.Background(), "delete-netflix"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Get(context.Background(), "delete-netflix"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an empty slot is not an error.
	if err := store.Delete(context.Background(), "delete-netflix"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}

func TestOverrideTokenStore_GetMissing(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewOverrideTokenStore(client, "")

	if _, err := store.Get(context.Background(), "never-issued"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
