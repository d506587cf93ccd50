package domain

import (
	"testing"
	"time"
)

func TestStableRecordIDNormalization(t *testing.T) {
	owner := NormalizeOwnerID("dana")

	first := StableRecordID(owner, "Netflix", "Dana@Example.com")
	second := StableRecordID(owner, "  netflix", "dana@example.com  ")

	if first != second {
		t.Fatalf("expected identical ids for normalized-equal identities, got %s and %s", first, second)
	}
	if len(first) != 24 {
		t.Fatalf("expected 24-char id, got %d chars", len(first))
	}

	other := StableRecordID(owner, "hulu", "dana@example.com")
	if other == first {
		t.Fatalf("expected distinct id for a different service")
	}
}

func TestPromotePending(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := NewCredentialRecord("dana", CategorySocial, "netflix", "dana@example.com", "https://netflix.com", "old-password", now)

	if record.PromotePending(now) {
		t.Fatalf("expected promotion without a queued password to fail")
	}

	record.QueueRotation("next-password", now.Add(time.Hour))
	if !record.HasPendingRotation() {
		t.Fatalf("expected pending rotation after queueing")
	}
	if record.CurrentPassword != "old-password" {
		t.Fatalf("queueing must not touch the current password")
	}

	promoteAt := now.Add(2 * time.Hour)
	if !record.PromotePending(promoteAt) {
		t.Fatalf("expected promotion to succeed")
	}
	if record.CurrentPassword != "next-password" {
		t.Fatalf("expected next-password current, got %s", record.CurrentPassword)
	}
	if record.PendingPassword != "" {
		t.Fatalf("expected pending cleared after promotion")
	}
	if len(record.PreviousPasswords) != 1 || record.PreviousPasswords[0] != "old-password" {
		t.Fatalf("expected old password at the front of history, got %v", record.PreviousPasswords)
	}
}

func TestLatestDistinctPrevious(t *testing.T) {
	record := CredentialRecord{
		CurrentPassword:   "current",
		PreviousPasswords: []string{"current", "older", "oldest"},
	}

	if got := record.LatestDistinctPrevious(); got != "older" {
		t.Fatalf("expected older, got %q", got)
	}

	record.PreviousPasswords = []string{"current"}
	if got := record.LatestDistinctPrevious(); got != "" {
		t.Fatalf("expected empty string when no distinct history exists, got %q", got)
	}
}

func TestOwnerRoleGuardianApproval(t *testing.T) {
	cases := []struct {
		role OwnerRole
		want bool
	}{
		{RoleGuardian, false},
		{RoleAdult, false},
		{RoleMinor, true},
		{RoleUnknown, true},
	}

	for _, tc := range cases {
		if got := tc.role.RequiresGuardianApproval(); got != tc.want {
			t.Fatalf("role %s: expected %v, got %v", tc.role, tc.want, got)
		}
	}
}

func TestProfileMatchesUsername(t *testing.T) {
	profile := OwnerProfile{EmailPatterns: []string{"dana@", "@family.example"}}

	if !profile.MatchesUsername("Dana@Example.com") {
		t.Fatalf("expected pattern dana@ to match")
	}
	if !profile.MatchesUsername("kid@family.example") {
		t.Fatalf("expected domain pattern to match")
	}
	if profile.MatchesUsername("stranger@other.com") {
		t.Fatalf("expected no match for unrelated username")
	}
	if profile.MatchesUsername("") {
		t.Fatalf("expected empty username never to match")
	}
}
