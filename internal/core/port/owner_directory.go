package port

import (
	"context"

	"github.com/arlanov/hearthpass/internal/core/domain"
)

// OwnerDirectory resolves household member profiles: age-band role, record
// and queue caps, and the email patterns the classifier matches against.
// The core consumes this collaborator but does not implement member
// management itself.
type OwnerDirectory interface {
	Profile(ctx context.Context, owner domain.OwnerID) (*domain.OwnerProfile, error)
	Profiles(ctx context.Context) ([]domain.OwnerProfile, error)
}
