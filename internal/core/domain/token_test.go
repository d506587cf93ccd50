package domain

import (
	"testing"
	"time"
)

func TestClampOverrideTTL(t *testing.T) {
	cases := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"below floor", 5 * time.Second, OverrideTTLFloor},
		{"at floor", OverrideTTLFloor, OverrideTTLFloor},
		{"inside window", 5 * time.Minute, 5 * time.Minute},
		{"at ceiling", OverrideTTLCeiling, OverrideTTLCeiling},
		{"above ceiling", time.Hour, OverrideTTLCeiling},
		{"negative", -time.Minute, OverrideTTLFloor},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampOverrideTTL(tc.ttl); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestTokenIsExpired(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := GuardianOverrideToken{ExpiresAt: expiry}

	if token.IsExpired(expiry.Add(-time.Second)) {
		t.Fatalf("token should be valid before expiry")
	}
	if !token.IsExpired(expiry) {
		t.Fatalf("token should be expired at the expiry instant")
	}
	if !token.IsExpired(expiry.Add(time.Second)) {
		t.Fatalf("token should be expired after expiry")
	}
}

func TestTokenMatchesScope(t *testing.T) {
	token := GuardianOverrideToken{
		ActionCode:  "delete-netflix",
		ReasonCode:  "subscription_cleanup",
		ProfileHash: "abc123",
	}

	cases := []struct {
		name    string
		action  string
		reason  string
		profile string
		want    bool
	}{
		{"exact match", "delete-netflix", "subscription_cleanup", "abc123", true},
		{"action only", "delete-netflix", "", "", true},
		{"trimmed action", "  delete-netflix  ", "", "", true},
		{"wrong action", "delete-hulu", "", "", false},
		{"wrong reason", "delete-netflix", "other_reason", "", false},
		{"wrong profile", "delete-netflix", "", "zzz999", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := token.MatchesScope(tc.action, tc.reason, tc.profile); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
