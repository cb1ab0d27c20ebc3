package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/CaseRisk-Intelligence/pkg/errors"
	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// Topic constants.  All topics carry EventEnvelope-encoded JSON.
const (
	// TopicAnalyticsEntityUpdated carries one event per committed
	// analytics record, keyed by entity id.
	TopicAnalyticsEntityUpdated = "analytics.entity.updated"

	// TopicSweepCompleted carries one event per finished corpus-wide
	// sweep.
	TopicSweepCompleted = "analytics.sweep.completed"
)

// eventSource identifies this service in event envelopes.
const eventSource = "caserisk-intelligence"

// EventEnvelope is the wire form of every published event.
type EventEnvelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEventEnvelope wraps a payload for publication.
func NewEventEnvelope(eventType string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event payload")
	}
	return &EventEnvelope{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    eventSource,
		Timestamp: time.Now().UTC(),
		Payload:   data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode event payload")
	}
	return nil
}

// ToMessage converts the envelope into a producer message for topic, keyed
// by key so per-entity ordering holds.
func (e *EventEnvelope) ToMessage(topic, key string) (*Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event envelope")
	}
	return &Message{
		Topic:     topic,
		Key:       []byte(key),
		Value:     data,
		Headers:   map[string]string{"event-type": e.Type, "source": e.Source},
		Timestamp: e.Timestamp,
	}, nil
}

// NewEntityUpdatedMessage builds the ready-to-publish message for a domain
// event, keyed by its aggregate (entity) id.
func NewEntityUpdatedMessage(event common.DomainEvent) (*Message, error) {
	env, err := NewEventEnvelope(TopicAnalyticsEntityUpdated, event)
	if err != nil {
		return nil, err
	}
	return env.ToMessage(TopicAnalyticsEntityUpdated, event.AggregateID())
}
