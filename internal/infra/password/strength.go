package password

import (
	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

const (
	weakLengthThreshold = 14
	minStrengthScore    = 3
)

// IsWeak reports whether a password falls below the household baseline:
// shorter than fourteen characters, missing one of the four character
// classes, or scoring poorly against a strength estimator with the caller's
// contextual inputs (usernames, service names) as penalty terms.
func IsWeak(candidate string, userInputs ...string) bool {
	if len(candidate) < weakLengthThreshold {
		return true
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for i := 0; i < len(candidate); i++ {
		c := candidate[i]
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return true
	}

	result := zxcvbn.PasswordStrength(candidate, userInputs)
	return result.Score < minStrengthScore
}
