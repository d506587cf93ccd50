package domain

import "testing"

func TestNormalizedClampsLengths(t *testing.T) {
	spec := PasswordPolicySpec{
		MinLength:               2,
		MaxLength:               4000,
		PreferredLength:         1,
		AllowLower:              true,
		MaxConsecutiveIdentical: 2,
	}.Normalized()

	if spec.MinLength != PolicyFloorLength {
		t.Fatalf("expected min length %d, got %d", PolicyFloorLength, spec.MinLength)
	}
	if spec.MaxLength != PolicyCeilingLength {
		t.Fatalf("expected max length %d, got %d", PolicyCeilingLength, spec.MaxLength)
	}
	if spec.PreferredLength != spec.MinLength {
		t.Fatalf("expected preferred length clamped to %d, got %d", spec.MinLength, spec.PreferredLength)
	}
}

func TestNormalizedInvertedRange(t *testing.T) {
	spec := PasswordPolicySpec{
		MinLength:       32,
		MaxLength:       16,
		PreferredLength: 64,
		AllowLower:      true,
	}.Normalized()

	if spec.MaxLength != spec.MinLength {
		t.Fatalf("expected max raised to min %d, got %d", spec.MinLength, spec.MaxLength)
	}
	if spec.PreferredLength != 32 {
		t.Fatalf("expected preferred clamped to 32, got %d", spec.PreferredLength)
	}
}

func TestNormalizedReenablesBaseClasses(t *testing.T) {
	spec := PasswordPolicySpec{
		MinLength:       12,
		MaxLength:       24,
		PreferredLength: 16,
	}.Normalized()

	if !spec.AllowLower || !spec.AllowUpper || !spec.AllowDigit {
		t.Fatalf("expected base classes re-enabled, got lower=%v upper=%v digit=%v", spec.AllowLower, spec.AllowUpper, spec.AllowDigit)
	}
	if spec.AllowSymbol {
		t.Fatalf("expected symbols to stay disabled")
	}
}

func TestNormalizedDropsEmptySymbolPool(t *testing.T) {
	spec := PasswordPolicySpec{
		MinLength:         12,
		MaxLength:         24,
		PreferredLength:   16,
		AllowLower:        true,
		AllowSymbol:       true,
		RequireSymbol:     true,
		AllowedSymbols:    "!@",
		DisallowedSymbols: "!@",
	}.Normalized()

	if spec.AllowSymbol {
		t.Fatalf("expected symbol class dropped when pool filters empty")
	}
	if spec.RequireSymbol {
		t.Fatalf("expected symbol requirement dropped with the class")
	}
}

func TestNormalizedSymbolOnlyPolicyWithDeniedPool(t *testing.T) {
	spec := PasswordPolicySpec{
		MinLength:         12,
		MaxLength:         24,
		PreferredLength:   16,
		AllowSymbol:       true,
		DisallowedSymbols: DefaultSymbols,
	}.Normalized()

	if spec.AllowSymbol {
		t.Fatalf("expected symbol class dropped when pool filters empty")
	}
	if !spec.AllowLower || !spec.AllowUpper || !spec.AllowDigit {
		t.Fatalf("expected base classes re-enabled, got lower=%v upper=%v digit=%v", spec.AllowLower, spec.AllowUpper, spec.AllowDigit)
	}
}

func TestNormalizedRequirementNeedsClass(t *testing.T) {
	spec := PasswordPolicySpec{
		MinLength:       12,
		MaxLength:       24,
		PreferredLength: 16,
		AllowLower:      true,
		RequireUpper:    true,
		RequireDigit:    true,
	}.Normalized()

	if spec.RequireUpper || spec.RequireDigit {
		t.Fatalf("expected requirements dropped for disallowed classes")
	}
}

func TestNormalizedStartWithLetterNeedsLetters(t *testing.T) {
	spec := PasswordPolicySpec{
		MinLength:       12,
		MaxLength:       24,
		PreferredLength: 16,
		AllowDigit:      true,
		StartWithLetter: true,
	}.Normalized()

	if spec.StartWithLetter {
		t.Fatalf("expected start-with-letter dropped when no letter class is allowed")
	}
}

func TestNormalizedIdempotent(t *testing.T) {
	specs := []PasswordPolicySpec{
		{},
		DefaultPasswordPolicy(),
		{MinLength: 2, MaxLength: 300, PreferredLength: 1, AllowSymbol: true, DisallowedSymbols: DefaultSymbols},
		{MinLength: 40, MaxLength: 10, RequireSymbol: true, StartWithLetter: true, AllowDigit: true},
	}

	for i, spec := range specs {
		once := spec.Normalized()
		twice := once.Normalized()
		if once != twice {
			t.Fatalf("case %d: normalization not idempotent:\nonce:  %+v\ntwice: %+v", i, once, twice)
		}
	}
}

func TestEffectiveSymbols(t *testing.T) {
	spec := PasswordPolicySpec{
		AllowedSymbols:    "!@#$",
		DisallowedSymbols: "@$",
	}

	if got := spec.EffectiveSymbols(); got != "!#" {
		t.Fatalf("expected effective symbols !#, got %q", got)
	}

	empty := PasswordPolicySpec{}
	if got := empty.EffectiveSymbols(); got != DefaultSymbols {
		t.Fatalf("expected default symbol pool, got %q", got)
	}
}

func TestTargetLength(t *testing.T) {
	spec := PasswordPolicySpec{MinLength: 12, MaxLength: 20, PreferredLength: 16}
	if got := spec.TargetLength(); got != 16 {
		t.Fatalf("expected target length 16, got %d", got)
	}

	spec.PreferredLength = 64
	if got := spec.TargetLength(); got != 20 {
		t.Fatalf("expected target length clamped to 20, got %d", got)
	}
}
