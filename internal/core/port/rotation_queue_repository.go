package port

import (
	"context"

	"github.com/arlanov/hearthpass/internal/core/domain"
)

// RotationQueueRepository exposes persistence behavior for the append-only
// action queue.
type RotationQueueRepository interface {
	Append(ctx context.Context, action domain.RotationAction) error
	// GetActive returns a non-completed action with the given id, or
	// repository.ErrNotFound.
	GetActive(ctx context.Context, actionID string) (*domain.RotationAction, error)
	List(ctx context.Context) ([]domain.RotationAction, error)
	ListByOwner(ctx context.Context, owner domain.OwnerID) ([]domain.RotationAction, error)
	CountPendingByOwner(ctx context.Context, owner domain.OwnerID) (int, error)
	Update(ctx context.Context, action domain.RotationAction) error
}
