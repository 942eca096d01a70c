// Package sink publishes audit events to Kafka. A circuit breaker shields
// the wizard from broker outages: while open, events are appended to a
// fallback store instead of being produced.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	id "engage/pkg/domain"
	audit "engage/pkg/platform/audit"
	"engage/pkg/platform/circuit"
)

type eventRecord struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	SignupID  string `json:"signupId,omitempty"`
	UserID    string `json:"userId,omitempty"`
	ClientKey string `json:"clientKey,omitempty"`
	Step      string `json:"step,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// KafkaStore implements audit.Store by producing events to a topic. Reads are
// served from the fallback store, which also absorbs writes while the broker
// is unreachable.
type KafkaStore struct {
	client   *kgo.Client
	topic    string
	fallback audit.Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewKafkaStore(brokers []string, topic string, fallback audit.Store, logger *slog.Logger) (*KafkaStore, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &KafkaStore{
		client:   client,
		topic:    topic,
		fallback: fallback,
		breaker:  circuit.New("audit-kafka", circuit.WithFailureThreshold(3), circuit.WithSuccessThreshold(2)),
		logger:   logger,
	}, nil
}

func (s *KafkaStore) Append(ctx context.Context, event audit.Event) error {
	if s.breaker.IsOpen() {
		// Probe the broker so the breaker can close again, but never lose
		// the event: the fallback keeps it either way.
		if err := s.produce(ctx, event); err == nil {
			if usePrimary, change := s.breaker.RecordSuccess(); usePrimary && change.Closed {
				s.logger.Info("audit kafka circuit closed", "breaker", s.breaker.Name())
			}
		}
		return s.fallback.Append(ctx, event)
	}

	if err := s.produce(ctx, event); err != nil {
		if _, change := s.breaker.RecordFailure(); change.Opened {
			s.logger.Warn("audit kafka circuit opened",
				"breaker", s.breaker.Name(), "error", err)
		}
		return s.fallback.Append(ctx, event)
	}
	s.breaker.RecordSuccess()
	return s.fallback.Append(ctx, event)
}

func (s *KafkaStore) ListBySignup(ctx context.Context, signupID id.SignupID) ([]audit.Event, error) {
	return s.fallback.ListBySignup(ctx, signupID)
}

func (s *KafkaStore) produce(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(eventRecord{
		ID:        event.ID,
		Timestamp: event.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Action:    string(event.Action),
		SignupID:  event.SignupID.String(),
		UserID:    event.UserID,
		ClientKey: event.ClientKey,
		Step:      event.Step,
		Reason:    event.Reason,
		RequestID: event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Key:   []byte(event.SignupID.String()),
		Value: payload,
	}
	return s.client.ProduceSync(ctx, record).FirstErr()
}

func (s *KafkaStore) Close() {
	s.client.Close()
}
