package password

import (
	"strings"

	"github.com/arlanov/hearthpass/internal/core/domain"
)

// Complies reports whether a password satisfies every constraint in the
// spec: length range, required classes present, disallowed classes absent,
// symbol pool membership, first-character rule, and maximum identical run.
func Complies(candidate string, spec domain.PasswordPolicySpec) bool {
	length := len(candidate)
	if length < spec.MinLength || length > spec.MaxLength {
		return false
	}

	symbols := spec.EffectiveSymbols()

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for i := 0; i < length; i++ {
		c := candidate[i]
		switch {
		case c >= 'a' && c <= 'z':
			if !spec.AllowLower {
				return false
			}
			hasLower = true
		case c >= 'A' && c <= 'Z':
			if !spec.AllowUpper {
				return false
			}
			hasUpper = true
		case c >= '0' && c <= '9':
			if !spec.AllowDigit {
				return false
			}
			hasDigit = true
		default:
			if !spec.AllowSymbol || !strings.ContainsRune(symbols, rune(c)) {
				return false
			}
			hasSymbol = true
		}
	}

	if spec.RequireLower && !hasLower {
		return false
	}
	if spec.RequireUpper && !hasUpper {
		return false
	}
	if spec.RequireDigit && !hasDigit {
		return false
	}
	if spec.RequireSymbol && !hasSymbol {
		return false
	}

	if spec.StartWithLetter && length > 0 && !isLetter(candidate[0]) {
		return false
	}

	if spec.MaxConsecutiveIdentical > 0 && maxRun(candidate) > spec.MaxConsecutiveIdentical {
		return false
	}

	return true
}

func maxRun(s string) int {
	longest, run := 0, 0
	var prev byte
	for i := 0; i < len(s); i++ {
		if i > 0 && s[i] == prev {
			run++
		} else {
			run = 1
			prev = s[i]
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
