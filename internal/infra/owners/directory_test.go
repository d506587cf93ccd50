package owners

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/infra/config"
	"github.com/arlanov/hearthpass/internal/repository"
)

func TestLoadDirectoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "owners.json")
	content := `{
		"owners": [
			{"id": "Dana", "display_name": "Dana", "role": "guardian", "email_patterns": ["dana@"], "record_limit": 100},
			{"id": "kit", "display_name": "Kit", "role": "minor", "email_patterns": ["kit@family.example"]},
			{"id": "", "role": "adult"}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	dir := Load(config.OwnerSettings{
		DirectoryPath:           path,
		DefaultRecordLimit:      40,
		DefaultQueueActionLimit: 5,
	}, zap.NewNop())

	profiles, err := dir.Profiles(context.Background())
	if err != nil {
		t.Fatalf("Profiles returned error: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles (blank id skipped), got %d", len(profiles))
	}

	dana, err := dir.Profile(context.Background(), domain.NormalizeOwnerID("DANA"))
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if dana.Role != domain.RoleGuardian {
		t.Fatalf("expected guardian role, got %s", dana.Role)
	}
	if dana.RecordLimit != 100 {
		t.Fatalf("expected explicit record limit 100, got %d", dana.RecordLimit)
	}
	if dana.QueueActionLimit != 5 {
		t.Fatalf("expected default queue limit 5, got %d", dana.QueueActionLimit)
	}

	kit, err := dir.Profile(context.Background(), "kit")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if kit.RecordLimit != 40 {
		t.Fatalf("expected default record limit 40, got %d", kit.RecordLimit)
	}
}

func TestLoadDirectoryDegradesToEmpty(t *testing.T) {
	dir := Load(config.OwnerSettings{DirectoryPath: "/nonexistent/owners.json"}, zap.NewNop())

	_, err := dir.Profile(context.Background(), "dana")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from empty directory, got %v", err)
	}
}

func TestProfilesStableOrder(t *testing.T) {
	dir := NewStatic([]domain.OwnerProfile{
		{ID: "zoe"},
		{ID: "alex"},
		{ID: "kit"},
	}, zap.NewNop())

	profiles, err := dir.Profiles(context.Background())
	if err != nil {
		t.Fatalf("Profiles returned error: %v", err)
	}

	want := []domain.OwnerID{"alex", "kit", "zoe"}
	for i, id := range want {
		if profiles[i].ID != id {
			t.Fatalf("expected %s at index %d, got %s", id, i, profiles[i].ID)
		}
	}
}
