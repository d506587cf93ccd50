package policy

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/infra/config"
)

// SpecOverride is a partial policy loaded from configuration. Nil fields
// inherit from the default policy; the merged result is normalized before
// use.
type SpecOverride struct {
	MinLength       *int `json:"min_length,omitempty"`
	MaxLength       *int `json:"max_length,omitempty"`
	PreferredLength *int `json:"preferred_length,omitempty"`

	RequireLower  *bool `json:"require_lower,omitempty"`
	RequireUpper  *bool `json:"require_upper,omitempty"`
	RequireDigit  *bool `json:"require_digit,omitempty"`
	RequireSymbol *bool `json:"require_symbol,omitempty"`

	AllowLower  *bool `json:"allow_lower,omitempty"`
	AllowUpper  *bool `json:"allow_upper,omitempty"`
	AllowDigit  *bool `json:"allow_digit,omitempty"`
	AllowSymbol *bool `json:"allow_symbol,omitempty"`

	AllowedSymbols    *string `json:"allowed_symbols,omitempty"`
	DisallowedSymbols *string `json:"disallowed_symbols,omitempty"`

	StartWithLetter         *bool `json:"start_with_letter,omitempty"`
	MaxConsecutiveIdentical *int  `json:"max_consecutive_identical,omitempty"`
}

// Apply overlays the override onto a base spec.
func (o SpecOverride) Apply(base domain.PasswordPolicySpec) domain.PasswordPolicySpec {
	spec := base

	if o.MinLength != nil {
		spec.MinLength = *o.MinLength
	}
	if o.MaxLength != nil {
		spec.MaxLength = *o.MaxLength
	}
	if o.PreferredLength != nil {
		spec.PreferredLength = *o.PreferredLength
	}
	if o.RequireLower != nil {
		spec.RequireLower = *o.RequireLower
	}
	if o.RequireUpper != nil {
		spec.RequireUpper = *o.RequireUpper
	}
	if o.RequireDigit != nil {
		spec.RequireDigit = *o.RequireDigit
	}
	if o.RequireSymbol != nil {
		spec.RequireSymbol = *o.RequireSymbol
	}
	if o.AllowLower != nil {
		spec.AllowLower = *o.AllowLower
	}
	if o.AllowUpper != nil {
		spec.AllowUpper = *o.AllowUpper
	}
	if o.AllowDigit != nil {
		spec.AllowDigit = *o.AllowDigit
	}
	if o.AllowSymbol != nil {
		spec.AllowSymbol = *o.AllowSymbol
	}
	if o.AllowedSymbols != nil {
		spec.AllowedSymbols = *o.AllowedSymbols
	}
	if o.DisallowedSymbols != nil {
		spec.DisallowedSymbols = *o.DisallowedSymbols
	}
	if o.StartWithLetter != nil {
		spec.StartWithLetter = *o.StartWithLetter
	}
	if o.MaxConsecutiveIdentical != nil {
		spec.MaxConsecutiveIdentical = *o.MaxConsecutiveIdentical
	}

	return spec
}

// Tables holds the site and category policy overrides consumed by the
// resolver.
type Tables struct {
	Sites      map[string]SpecOverride
	Categories map[string]SpecOverride
}

// DefaultTables returns the compiled-in policy tables.
func DefaultTables() Tables {
	return Tables{
		Sites: map[string]SpecOverride{
			"google.com": {
				MinLength:       intPtr(12),
				PreferredLength: intPtr(20),
			},
			"github.com": {
				PreferredLength: intPtr(24),
				RequireSymbol:   boolPtr(true),
			},
		},
		Categories: map[string]SpecOverride{
			domain.CategoryEmail.String(): {
				PreferredLength: intPtr(20),
			},
			// Several banks reject symbols in passwords, so the category
			// default does not demand one.
			domain.CategoryBanking.String(): {
				RequireSymbol:   boolPtr(false),
				PreferredLength: intPtr(16),
			},
			domain.CategorySocial.String():    {},
			domain.CategoryDeveloper.String(): {PreferredLength: intPtr(24)},
			domain.CategoryOther.String():     {},
		},
	}
}

// LoadTables builds policy tables from the configured file paths, degrading
// to the compiled-in defaults on any read or parse failure. Password
// generation availability never depends on configuration file integrity.
func LoadTables(cfg config.PolicySettings, log *zap.Logger) Tables {
	if log == nil {
		log = zap.NewNop()
	}

	tables := DefaultTables()

	if sites, ok := loadOverrideFile(cfg.SiteTablePath, log); ok {
		tables.Sites = sites
	}
	if categories, ok := loadOverrideFile(cfg.CategoryTablePath, log); ok {
		tables.Categories = categories
	}

	return tables
}

func loadOverrideFile(path string, log *zap.Logger) (map[string]SpecOverride, bool) {
	if path == "" {
		return nil, false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("policy table unreadable, using defaults", zap.String("path", path), zap.Error(err))
		}
		return nil, false
	}

	var overrides map[string]SpecOverride
	if err := json.Unmarshal(raw, &overrides); err != nil {
		log.Warn("policy table unparseable, using defaults", zap.String("path", path), zap.Error(err))
		return nil, false
	}

	return overrides, true
}

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
