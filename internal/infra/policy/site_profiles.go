package policy

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/infra/config"
)

// SiteProfile carries the per-site deep links used when acting on a queued
// rotation.
type SiteProfile struct {
	ChangePasswordURL string `json:"change_password_url"`
	DeleteAccountURL  string `json:"delete_account_url"`
}

// SiteProfiles maps a site domain to its profile.
type SiteProfiles map[string]SiteProfile

// DefaultSiteProfiles returns the compiled-in profile table.
func DefaultSiteProfiles() SiteProfiles {
	return SiteProfiles{
		"google.com": {
			ChangePasswordURL: "https://myaccount.google.com/signinoptions/password",
			DeleteAccountURL:  "https://myaccount.google.com/delete-services-or-account",
		},
		"facebook.com": {
			ChangePasswordURL: "https://www.facebook.com/settings?tab=security",
			DeleteAccountURL:  "https://www.facebook.com/help/delete_account",
		},
		"github.com": {
			ChangePasswordURL: "https://github.com/settings/security",
			DeleteAccountURL:  "https://github.com/settings/admin",
		},
	}
}

// LoadSiteProfiles reads the profile table from disk, degrading to the
// compiled-in defaults on any failure.
func LoadSiteProfiles(cfg config.PolicySettings, log *zap.Logger) SiteProfiles {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.SiteProfilesPath == "" {
		return DefaultSiteProfiles()
	}

	raw, err := os.ReadFile(cfg.SiteProfilesPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("site profiles unreadable, using defaults", zap.String("path", cfg.SiteProfilesPath), zap.Error(err))
		}
		return DefaultSiteProfiles()
	}

	var profiles SiteProfiles
	if err := json.Unmarshal(raw, &profiles); err != nil {
		log.Warn("site profiles unparseable, using defaults", zap.String("path", cfg.SiteProfilesPath), zap.Error(err))
		return DefaultSiteProfiles()
	}

	return profiles
}

// TargetURL resolves where an action should be executed: the site profile's
// deep link when one exists, otherwise the record URL.
func (p SiteProfiles) TargetURL(actionType domain.ActionType, recordURL string) string {
	profile, ok := p[DomainFromURL(recordURL)]
	if !ok {
		return recordURL
	}

	switch actionType {
	case domain.ActionRotatePassword:
		if profile.ChangePasswordURL != "" {
			return profile.ChangePasswordURL
		}
	case domain.ActionDeleteAccount:
		if profile.DeleteAccountURL != "" {
			return profile.DeleteAccountURL
		}
	}
	return recordURL
}
