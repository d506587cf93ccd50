package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly audit publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, ownerID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("owner_id", ownerID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishGuardianDecision logs credential.guardian.decision events.
func (p *StubPublisher) PublishGuardianDecision(_ context.Context, event domain.GuardianDecisionEvent) error {
	payload := map[string]any{
		"action_code": event.ActionCode,
		"outcome":     event.Outcome,
		"reason_code": event.ReasonCode,
		"actor_role":  event.ActorRole,
		"metadata":    event.Metadata,
	}
	p.logEvent("credential.guardian.decision", "", event.At, payload)
	return nil
}

// PublishRotationPromoted logs credential.rotation.promoted events.
func (p *StubPublisher) PublishRotationPromoted(_ context.Context, event domain.RotationPromotedEvent) error {
	payload := map[string]any{
		"record_id": event.RecordID,
		"service":   event.Service,
		"username":  event.Username,
		"metadata":  event.Metadata,
	}
	p.logEvent("credential.rotation.promoted", string(event.Owner), event.At, payload)
	return nil
}

// PublishActionCompleted logs credential.action.completed events.
func (p *StubPublisher) PublishActionCompleted(_ context.Context, event domain.ActionCompletedEvent) error {
	payload := map[string]any{
		"action_id":   event.ActionID,
		"receipt_id":  event.ReceiptID,
		"action_type": event.Type,
		"service":     event.Service,
		"metadata":    event.Metadata,
	}
	p.logEvent("credential.action.completed", string(event.Owner), event.At, payload)
	return nil
}

var _ port.AuditPublisher = (*StubPublisher)(nil)
