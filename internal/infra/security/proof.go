package security

import (
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/arlanov/hearthpass/internal/core/domain"
)

// ProofCodec signs and verifies the compact proof artifact carried inside
// guardian override tokens. The proof lets a gated caller present the
// approval across process boundaries; validation still cross-checks the
// stored token, so a proof alone never authorizes anything.
type ProofCodec struct {
	secret []byte
}

// NewProofCodec builds a codec over the configured secret. An empty secret
// gets replaced with an ephemeral random one, which confines proofs to the
// current process lifetime.
func NewProofCodec(secret string) (*ProofCodec, error) {
	if secret == "" {
		generated, err := GenerateSecureToken(32)
		if err != nil {
			return nil, fmt.Errorf("generate proof secret: %w", err)
		}
		secret = generated
	}
	return &ProofCodec{secret: []byte(secret)}, nil
}

type proofClaims struct {
	ActionCode  string `json:"action_code"`
	ReasonCode  string `json:"reason_code,omitempty"`
	ProfileHash string `json:"profile_hash,omitempty"`
	jwt.RegisteredClaims
}

// Sign produces the HS256 proof string for an override token.
func (c *ProofCodec) Sign(token domain.GuardianOverrideToken) (string, error) {
	claims := proofClaims{
		ActionCode:  token.ActionCode,
		ReasonCode:  token.ReasonCode,
		ProfileHash: token.ProfileHash,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(token.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(token.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign override proof: %w", err)
	}
	return signed, nil
}

// Verify parses a proof string and confirms it was issued for the given
// action code. Expiry is enforced by the parser.
func (c *ProofCodec) Verify(proof, actionCode string) error {
	var claims proofClaims
	_, err := jwt.ParseWithClaims(proof, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return fmt.Errorf("parse override proof: %w", err)
	}

	if claims.ActionCode != actionCode {
		return fmt.Errorf("override proof issued for action %q", claims.ActionCode)
	}
	return nil
}
