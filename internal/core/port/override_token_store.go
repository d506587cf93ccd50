package port

import (
	"context"

	"github.com/arlanov/hearthpass/internal/core/domain"
)

// OverrideTokenStore keeps at most one guardian override token per action
// code. Put overwrites any prior token for the same code.
type OverrideTokenStore interface {
	Put(ctx context.Context, token domain.GuardianOverrideToken) error
	Get(ctx context.Context, actionCode string) (*domain.GuardianOverrideToken, error)
	Delete(ctx context.Context, actionCode string) error
}
