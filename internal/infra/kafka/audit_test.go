package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/arlanov/hearthpass/internal/core/domain"
	"github.com/arlanov/hearthpass/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func newTestPublisher(t *testing.T) (*AuditPublisher, *fakeAsyncProducer) {
	t.Helper()

	asyncProducer := newFakeAsyncProducer()
	producer := &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "hearth",
		},
		errChan: make(chan error, 1),
		done:    make(chan struct{}),
	}

	publisher := NewAuditPublisher(producer, config.AppSettings{
		Name: "hearthpass",
		Env:  "test",
	}, zaptest.NewLogger(t))

	return publisher, asyncProducer
}

func TestPublishGuardianDecision(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	decidedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event := domain.GuardianDecisionEvent{
		EventID:    "event-123",
		ActionCode: "delete-netflix",
		Outcome:    domain.OutcomeIssued,
		ReasonCode: "subscription_cleanup",
		ActorRole:  domain.RoleGuardian,
		At:         decidedAt,
	}

	if err := publisher.PublishGuardianDecision(context.Background(), event); err != nil {
		t.Fatalf("PublishGuardianDecision returned error: %v", err)
	}

	var message *sarama.ProducerMessage
	select {
	case message = <-asyncProducer.input:
	case <-time.After(time.Second):
		t.Fatalf("expected a produced message")
	}

	if message.Topic != "hearth.credential.guardian.decision" {
		t.Fatalf("expected prefixed topic, got %s", message.Topic)
	}

	raw, err := message.Value.Encode()
	if err != nil {
		t.Fatalf("encode message value: %v", err)
	}

	var envelope struct {
		EventID   string            `json:"event_id"`
		EventType string            `json:"event_type"`
		Version   string            `json:"version"`
		Metadata  map[string]string `json:"metadata"`
		Payload   struct {
			ActionCode string `json:"action_code"`
			Outcome    string `json:"outcome"`
			ActorRole  string `json:"actor_role"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	if envelope.EventID != "event-123" {
		t.Fatalf("expected event id carried through, got %s", envelope.EventID)
	}
	if envelope.EventType != "credential.guardian.decision" {
		t.Fatalf("unexpected event type %s", envelope.EventType)
	}
	if envelope.Version != "1.0" {
		t.Fatalf("expected schema version 1.0, got %s", envelope.Version)
	}
	if envelope.Metadata["service"] != "hearthpass" || envelope.Metadata["environment"] != "test" {
		t.Fatalf("unexpected metadata: %v", envelope.Metadata)
	}
	if envelope.Payload.ActionCode != "delete-netflix" || envelope.Payload.Outcome != domain.OutcomeIssued {
		t.Fatalf("unexpected payload: %+v", envelope.Payload)
	}
	if envelope.Payload.ActorRole != string(domain.RoleGuardian) {
		t.Fatalf("expected guardian actor role, got %s", envelope.Payload.ActorRole)
	}
}

func TestPublishActionCompletedOwnerEnvelope(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	event := domain.ActionCompletedEvent{
		EventID:   "event-456",
		ActionID:  "act-1",
		ReceiptID: "r-1",
		Type:      domain.ActionRotatePassword,
		Owner:     "dana",
		Service:   "netflix",
		At:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := publisher.PublishActionCompleted(context.Background(), event); err != nil {
		t.Fatalf("PublishActionCompleted returned error: %v", err)
	}

	message := <-asyncProducer.input
	if message.Topic != "hearth.credential.action.completed" {
		t.Fatalf("unexpected topic %s", message.Topic)
	}

	raw, err := message.Value.Encode()
	if err != nil {
		t.Fatalf("encode message value: %v", err)
	}

	var envelope struct {
		OwnerID string `json:"owner_id"`
		Payload struct {
			ReceiptID string `json:"receipt_id"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if envelope.OwnerID != "dana" {
		t.Fatalf("expected owner in envelope, got %s", envelope.OwnerID)
	}
	if envelope.Payload.ReceiptID != "r-1" {
		t.Fatalf("expected receipt in payload, got %s", envelope.Payload.ReceiptID)
	}
}

func TestPublishRespectsContextWhenFull(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	// Fill the buffered input channel so the next publish blocks.
	asyncProducer.input <- &sarama.ProducerMessage{}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := publisher.PublishRotationPromoted(ctx, domain.RotationPromotedEvent{
		EventID:  "event-789",
		RecordID: "rec-1",
		Owner:    "dana",
	})
	if err == nil {
		t.Fatalf("expected context deadline error when the producer is saturated")
	}
}

func TestTopicName(t *testing.T) {
	producer := &Producer{cfg: config.KafkaSettings{TopicPrefix: "hearth"}}

	if got := producer.TopicName("credential.rotation.promoted"); got != "hearth.credential.rotation.promoted" {
		t.Fatalf("expected prefixed topic, got %s", got)
	}
	if got := producer.TopicName("hearth.credential.rotation.promoted"); got != "hearth.credential.rotation.promoted" {
		t.Fatalf("expected existing prefix kept, got %s", got)
	}

	producer.cfg.TopicPrefix = ""
	if got := producer.TopicName("credential.rotation.promoted"); got != "credential.rotation.promoted" {
		t.Fatalf("expected bare topic without prefix, got %s", got)
	}
}
