package usecase

import (
	"testing"

	"go.uber.org/zap"

	"github.com/arlanov/hearthpass/internal/infra/password"
	"github.com/arlanov/hearthpass/internal/infra/policy"
)

func newTestPolicyService() *PolicyService {
	return NewPolicyService(policy.NewResolver(policy.DefaultTables()), password.NewGenerator(), zap.NewNop())
}

func TestGeneratePasswordMatchesResolvedPolicy(t *testing.T) {
	svc := newTestPolicyService()

	candidate, spec, err := svc.GeneratePassword("github", "https://github.com", "")
	if err != nil {
		t.Fatalf("GeneratePassword returned error: %v", err)
	}
	if spec.Source != "site:github.com" {
		t.Fatalf("expected site policy, got %s", spec.Source)
	}
	if !password.Complies(candidate, spec) {
		t.Fatalf("generated password %q violates its own spec", candidate)
	}
}

func TestResolvePolicyCategoryHint(t *testing.T) {
	svc := newTestPolicyService()

	spec := svc.ResolvePolicy("Neighborhood Credit Union", "", "banking")
	if spec.Source != "category:banking" {
		t.Fatalf("expected category:banking, got %s", spec.Source)
	}
	if spec.RequireSymbol {
		t.Fatalf("expected banking policy without a symbol requirement")
	}
}

func TestAssessStrength(t *testing.T) {
	svc := newTestPolicyService()

	if !svc.AssessStrength("password1") {
		t.Fatalf("expected password1 to be weak")
	}
	if svc.AssessStrength("V9#mKq2!xRw7@Zp4Lf") {
		t.Fatalf("expected a long random password to pass")
	}
}
