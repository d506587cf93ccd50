package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/core/port"
	"github.com/arlanov/hearthpass/internal/infra/config"
)

const schemaVersion = "1.0"

// AuditPublisher implements port.AuditPublisher using Kafka.
type AuditPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewAuditPublisher constructs a Kafka-backed audit publisher.
func NewAuditPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *AuditPublisher {
	return &AuditPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	OwnerID   string           `json:"owner_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *AuditPublisher) publish(ctx context.Context, eventID, eventType, ownerID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		OwnerID:   ownerID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishGuardianDecision publishes credential.guardian.decision events.
func (p *AuditPublisher) PublishGuardianDecision(ctx context.Context, event domain.GuardianDecisionEvent) error {
	payload := struct {
		ActionCode string         `json:"action_code"`
		Outcome    string         `json:"outcome"`
		ReasonCode string         `json:"reason_code,omitempty"`
		ActorRole  string         `json:"actor_role,omitempty"`
		DecidedAt  time.Time      `json:"decided_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		ActionCode: event.ActionCode,
		Outcome:    event.Outcome,
		ReasonCode: event.ReasonCode,
		ActorRole:  string(event.ActorRole),
		DecidedAt:  event.At.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "credential.guardian.decision", "", event.At, payload)
}

// PublishRotationPromoted publishes credential.rotation.promoted events.
func (p *AuditPublisher) PublishRotationPromoted(ctx context.Context, event domain.RotationPromotedEvent) error {
	payload := struct {
		RecordID   string         `json:"record_id"`
		Service    string         `json:"service"`
		Username   string         `json:"username"`
		PromotedAt time.Time      `json:"promoted_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		RecordID:   event.RecordID,
		Service:    event.Service,
		Username:   event.Username,
		PromotedAt: event.At.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "credential.rotation.promoted", string(event.Owner), event.At, payload)
}

// PublishActionCompleted publishes credential.action.completed events.
func (p *AuditPublisher) PublishActionCompleted(ctx context.Context, event domain.ActionCompletedEvent) error {
	payload := struct {
		ActionID    string         `json:"action_id"`
		ReceiptID   string         `json:"receipt_id"`
		ActionType  string         `json:"action_type"`
		Service     string         `json:"service"`
		CompletedAt time.Time      `json:"completed_at"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}{
		ActionID:    event.ActionID,
		ReceiptID:   event.ReceiptID,
		ActionType:  string(event.Type),
		Service:     event.Service,
		CompletedAt: event.At.UTC(),
		Metadata:    event.Metadata,
	}

	return p.publish(ctx, event.EventID, "credential.action.completed", string(event.Owner), event.At, payload)
}

var _ port.AuditPublisher = (*AuditPublisher)(nil)
