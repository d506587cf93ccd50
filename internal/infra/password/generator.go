package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/arlanov/hearthpass/internal/core/domain"
)

// maxGenerationAttempts bounds the constrained-sampling retry loop.
// Sampling can occasionally violate the run-length or first-character rules;
// after this many attempts the unconstrained fallback takes over so
// generation always terminates with a usable password.
const maxGenerationAttempts = 96

// Generator produces passwords satisfying a resolved policy spec using a
// cryptographically secure random source.
type Generator struct{}

// NewGenerator constructs a Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a password satisfying the spec. The only error condition
// is a failing system random source.
func (g *Generator) Generate(spec domain.PasswordPolicySpec) (string, error) {
	spec = spec.Normalized()

	for attempt := 0; attempt < maxGenerationAttempts; attempt++ {
		candidate, err := g.sample(spec)
		if err != nil {
			return "", err
		}
		if Complies(candidate, spec) {
			return candidate, nil
		}
	}

	return g.fallback(spec.TargetLength())
}

// sample builds one candidate: one character per required class, padding
// from the union of allowed pools, a shuffle, and a first-letter swap when
// the spec demands a leading letter.
func (g *Generator) sample(spec domain.PasswordPolicySpec) (string, error) {
	pools := allowedPools(spec)
	union := strings.Join(pools, "")
	if union == "" {
		// Normalization guarantees at least one allowed class.
		return "", fmt.Errorf("no allowed character pools")
	}

	target := spec.TargetLength()
	chars := make([]byte, 0, target)

	for _, req := range requiredPools(spec) {
		if req == "" || len(chars) >= target {
			continue
		}
		c, err := pickByte(req)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	for len(chars) < target {
		c, err := pickByte(union)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	if err := shuffle(chars); err != nil {
		return "", err
	}

	if spec.StartWithLetter && len(chars) > 0 && !isLetter(chars[0]) {
		for i, c := range chars {
			if isLetter(c) {
				chars[0], chars[i] = chars[i], chars[0]
				break
			}
		}
	}

	return string(chars), nil
}

// fallback generates from all four classes at the target length. It skips
// the compliance check: with every class allowed and no structural rules it
// cannot fail one.
func (g *Generator) fallback(length int) (string, error) {
	alphabet := domain.LowerChars + domain.UpperChars + domain.DigitChars + domain.DefaultSymbols
	chars := make([]byte, length)
	for i := range chars {
		c, err := pickByte(alphabet)
		if err != nil {
			return "", err
		}
		chars[i] = c
	}
	return string(chars), nil
}

func allowedPools(spec domain.PasswordPolicySpec) []string {
	pools := make([]string, 0, 4)
	if spec.AllowLower {
		pools = append(pools, domain.LowerChars)
	}
	if spec.AllowUpper {
		pools = append(pools, domain.UpperChars)
	}
	if spec.AllowDigit {
		pools = append(pools, domain.DigitChars)
	}
	if spec.AllowSymbol {
		pools = append(pools, spec.EffectiveSymbols())
	}
	return pools
}

func requiredPools(spec domain.PasswordPolicySpec) []string {
	pools := make([]string, 0, 4)
	if spec.RequireLower {
		pools = append(pools, domain.LowerChars)
	}
	if spec.RequireUpper {
		pools = append(pools, domain.UpperChars)
	}
	if spec.RequireDigit {
		pools = append(pools, domain.DigitChars)
	}
	if spec.RequireSymbol {
		pools = append(pools, spec.EffectiveSymbols())
	}
	return pools
}

func pickByte(pool string) (byte, error) {
	idx, err := randInt(len(pool))
	if err != nil {
		return 0, err
	}
	return pool[idx], nil
}

func shuffle(chars []byte) error {
	for i := len(chars) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return err
		}
		chars[i], chars[j] = chars[j], chars[i]
	}
	return nil
}

func randInt(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("empty pool")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	return int(v.Int64()), nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
