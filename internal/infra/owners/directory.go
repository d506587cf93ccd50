package owners

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/core/port"
	"github.com/arlanov/hearthpass/internal/infra/config"
	"github.com/arlanov/hearthpass/internal/repository"
)

// Directory is a static, config-backed owner directory. Profiles are loaded
// once at startup; membership changes require a restart.
type Directory struct {
	profiles map[domain.OwnerID]domain.OwnerProfile
	logger   *zap.Logger
}

type profileFile struct {
	Owners []profileEntry `json:"owners"`
}

type profileEntry struct {
	ID               string   `json:"id"`
	DisplayName      string   `json:"display_name"`
	Role             string   `json:"role"`
	EmailPatterns    []string `json:"email_patterns"`
	RecordLimit      *int     `json:"record_limit"`
	QueueActionLimit *int     `json:"queue_action_limit"`
}

// Load reads the owner directory file. A missing or unparseable file degrades
// to an empty directory so the service still starts; lookups then return
// repository.ErrNotFound.
func Load(cfg config.OwnerSettings, logger *zap.Logger) *Directory {
	d := &Directory{
		profiles: make(map[domain.OwnerID]domain.OwnerProfile),
		logger:   logger,
	}

	if cfg.DirectoryPath == "" {
		return d
	}

	raw, err := os.ReadFile(cfg.DirectoryPath)
	if err != nil {
		logger.Warn("owner directory file unavailable, starting empty",
			zap.String("path", cfg.DirectoryPath),
			zap.Error(err),
		)
		return d
	}

	var file profileFile
	if err := json.Unmarshal(raw, &file); err != nil {
		logger.Warn("owner directory file unparseable, starting empty",
			zap.String("path", cfg.DirectoryPath),
			zap.Error(err),
		)
		return d
	}

	for _, entry := range file.Owners {
		id := domain.NormalizeOwnerID(entry.ID)
		if id == "" {
			continue
		}

		profile := domain.OwnerProfile{
			ID:               id,
			DisplayName:      entry.DisplayName,
			Role:             domain.ParseOwnerRole(entry.Role),
			EmailPatterns:    entry.EmailPatterns,
			RecordLimit:      cfg.DefaultRecordLimit,
			QueueActionLimit: cfg.DefaultQueueActionLimit,
		}
		if entry.RecordLimit != nil {
			profile.RecordLimit = *entry.RecordLimit
		}
		if entry.QueueActionLimit != nil {
			profile.QueueActionLimit = *entry.QueueActionLimit
		}

		d.profiles[id] = profile
	}

	logger.Info("owner directory loaded",
		zap.String("path", cfg.DirectoryPath),
		zap.Int("profiles", len(d.profiles)),
	)

	return d
}

// NewStatic builds a directory from already-constructed profiles. Used in
// tests and by embedding callers.
func NewStatic(profiles []domain.OwnerProfile, logger *zap.Logger) *Directory {
	d := &Directory{
		profiles: make(map[domain.OwnerID]domain.OwnerProfile, len(profiles)),
		logger:   logger,
	}
	for _, p := range profiles {
		d.profiles[p.ID] = p
	}
	return d
}

// Profile resolves a single household member.
func (d *Directory) Profile(_ context.Context, owner domain.OwnerID) (*domain.OwnerProfile, error) {
	profile, ok := d.profiles[owner]
	if !ok {
		return nil, fmt.Errorf("owner %q: %w", owner, repository.ErrNotFound)
	}
	return &profile, nil
}

// Profiles lists every household member in stable order.
func (d *Directory) Profiles(_ context.Context) ([]domain.OwnerProfile, error) {
	out := make([]domain.OwnerProfile, 0, len(d.profiles))
	for _, p := range d.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ port.OwnerDirectory = (*Directory)(nil)
