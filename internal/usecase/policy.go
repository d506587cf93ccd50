package usecase

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/infra/password"
	"github.com/arlanov/hearthpass/internal/infra/policy"
)

// PolicyService resolves the effective password policy for a site and
// produces compliant passwords.
type PolicyService struct {
	resolver  *policy.Resolver
	generator *password.Generator
	logger    *zap.Logger
}

// NewPolicyService constructs a PolicyService.
func NewPolicyService(resolver *policy.Resolver, generator *password.Generator, logger *zap.Logger) *PolicyService {
	return &PolicyService{resolver: resolver, generator: generator, logger: logger}
}

// ResolvePolicy returns the normalized policy for the site described by
// service name, URL, and optional category hint.
func (s *PolicyService) ResolvePolicy(service, url, category string) domain.PasswordPolicySpec {
	return s.resolver.Resolve(service, url, category)
}

// GeneratePassword resolves the site policy and generates a password that
// satisfies it.
func (s *PolicyService) GeneratePassword(service, url, category string) (string, domain.PasswordPolicySpec, error) {
	spec := s.resolver.Resolve(service, url, category)

	candidate, err := s.generator.Generate(spec)
	if err != nil {
		return "", spec, fmt.Errorf("generate password: %w", err)
	}

	s.logger.Debug("password generated",
		zap.String("policy_source", spec.Source),
		zap.Int("length", len(candidate)),
	)

	return candidate, spec, nil
}

// AssessStrength reports whether a candidate falls below the household
// baseline, with contextual inputs as penalty terms.
func (s *PolicyService) AssessStrength(candidate string, userInputs ...string) bool {
	return password.IsWeak(candidate, userInputs...)
}
