package port

import (
	"context"

	"github.com/arlanov/hearthpass/internal/core/domain"
)

// AuditPublisher notifies the household audit sink of every sensitive state
// change. Implementations must be safe to call from multiple goroutines.
type AuditPublisher interface {
	PublishGuardianDecision(ctx context.Context, event domain.GuardianDecisionEvent) error
	PublishRotationPromoted(ctx context.Context, event domain.RotationPromotedEvent) error
	PublishActionCompleted(ctx context.Context, event domain.ActionCompletedEvent) error
}
