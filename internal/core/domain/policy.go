package domain

import "strings"

// Global length bounds every resolved policy is clamped into.
const (
	PolicyFloorLength   = 8
	PolicyCeilingLength = 128

	maxIdenticalRunFloor   = 1
	maxIdenticalRunCeiling = 4
)

// Character pools shared by policy normalization and password generation.
const (
	LowerChars     = "abcdefghijklmnopqrstuvwxyz"
	UpperChars     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DigitChars     = "0123456789"
	DefaultSymbols = "!@#$%^&*()-_=+[]{}:,.?"
)

// PasswordPolicySpec is the resolved set of rules a generated password must
// satisfy. Instances are built fresh on every resolution call and are
// treated as immutable once normalized.
type PasswordPolicySpec struct {
	Source          string
	MinLength       int
	MaxLength       int
	PreferredLength int

	RequireLower  bool
	RequireUpper  bool
	RequireDigit  bool
	RequireSymbol bool

	AllowLower  bool
	AllowUpper  bool
	AllowDigit  bool
	AllowSymbol bool

	// AllowedSymbols is the symbol pool; DisallowedSymbols is removed from
	// it before use.
	AllowedSymbols    string
	DisallowedSymbols string

	StartWithLetter         bool
	MaxConsecutiveIdentical int
}

// DefaultPasswordPolicy returns the compiled-in fallback policy.
func DefaultPasswordPolicy() PasswordPolicySpec {
	return PasswordPolicySpec{
		Source:                  "default",
		MinLength:               12,
		MaxLength:               64,
		PreferredLength:         16,
		RequireLower:            true,
		RequireUpper:            true,
		RequireDigit:            true,
		RequireSymbol:           true,
		AllowLower:              true,
		AllowUpper:              true,
		AllowDigit:              true,
		AllowSymbol:             true,
		AllowedSymbols:          DefaultSymbols,
		StartWithLetter:         false,
		MaxConsecutiveIdentical: 2,
	}.Normalized()
}

// EffectiveSymbols returns the symbol pool after allow/deny filtering.
func (p PasswordPolicySpec) EffectiveSymbols() string {
	pool := p.AllowedSymbols
	if pool == "" {
		pool = DefaultSymbols
	}
	if p.DisallowedSymbols == "" {
		return pool
	}
	var b strings.Builder
	for _, r := range pool {
		if !strings.ContainsRune(p.DisallowedSymbols, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalized returns a compliant copy of the policy. Applying it twice
// yields the same result.
func (p PasswordPolicySpec) Normalized() PasswordPolicySpec {
	n := p

	n.MinLength = clampInt(n.MinLength, PolicyFloorLength, PolicyCeilingLength)
	n.MaxLength = clampInt(n.MaxLength, PolicyFloorLength, PolicyCeilingLength)
	if n.MaxLength < n.MinLength {
		n.MaxLength = n.MinLength
	}
	n.PreferredLength = clampInt(n.PreferredLength, n.MinLength, n.MaxLength)

	// Drop the symbol class before counting usable classes: a fully denied
	// symbol pool must not mask an otherwise-empty policy.
	if n.AllowSymbol && n.EffectiveSymbols() == "" {
		n.AllowSymbol = false
	}

	// A policy that disallows every class is unusable; re-enable the three
	// base classes rather than fail.
	if !n.AllowLower && !n.AllowUpper && !n.AllowDigit && !n.AllowSymbol {
		n.AllowLower = true
		n.AllowUpper = true
		n.AllowDigit = true
	}

	// A class requirement cannot survive without the class itself.
	n.RequireLower = n.RequireLower && n.AllowLower
	n.RequireUpper = n.RequireUpper && n.AllowUpper
	n.RequireDigit = n.RequireDigit && n.AllowDigit
	n.RequireSymbol = n.RequireSymbol && n.AllowSymbol

	if n.StartWithLetter && !n.AllowLower && !n.AllowUpper {
		n.StartWithLetter = false
	}

	n.MaxConsecutiveIdentical = clampInt(n.MaxConsecutiveIdentical, maxIdenticalRunFloor, maxIdenticalRunCeiling)

	return n
}

// TargetLength is the generation length: preferred clamped into the
// min/max range.
func (p PasswordPolicySpec) TargetLength() int {
	return clampInt(p.PreferredLength, p.MinLength, p.MaxLength)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
