package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/core/port"
	"github.com/arlanov/hearthpass/internal/infra/policy"
)

// ClassifierService attributes credentials to household members and sorts
// sites into spending categories.
type ClassifierService struct {
	directory port.OwnerDirectory
	logger    *zap.Logger
}

// NewClassifierService constructs a ClassifierService.
func NewClassifierService(directory port.OwnerDirectory, logger *zap.Logger) *ClassifierService {
	return &ClassifierService{directory: directory, logger: logger}
}

// ResolveOwner finds the household member whose email patterns match the
// username. The first matching profile in directory order wins; no match
// yields ErrOwnerUnresolved.
func (s *ClassifierService) ResolveOwner(ctx context.Context, username string) (domain.OwnerID, error) {
	profiles, err := s.directory.Profiles(ctx)
	if err != nil {
		return "", fmt.Errorf("list owner profiles: %w", err)
	}

	for _, profile := range profiles {
		if profile.MatchesUsername(username) {
			return profile.ID, nil
		}
	}

	return "", ErrOwnerUnresolved
}

// ResolveCategory classifies a site by its URL host and service name.
func (s *ClassifierService) ResolveCategory(url, service string) domain.Category {
	return domain.ClassifyCategory(policy.DomainFromURL(url), service)
}
