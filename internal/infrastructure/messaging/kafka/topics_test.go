package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

func TestNewEventEnvelope(t *testing.T) {
	payload := map[string]int{"risk_score": 75}

	env, err := NewEventEnvelope(TopicAnalyticsEntityUpdated, payload)
	require.NoError(t, err)

	assert.NotEmpty(t, env.ID)
	assert.Equal(t, TopicAnalyticsEntityUpdated, env.Type)
	assert.Equal(t, eventSource, env.Source)
	assert.WithinDuration(t, time.Now().UTC(), env.Timestamp, 5*time.Second)

	var decoded map[string]int
	require.NoError(t, env.DecodePayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewEventEnvelope_UnencodablePayload(t *testing.T) {
	_, err := NewEventEnvelope("t", make(chan int))
	require.Error(t, err)
}

func TestEnvelopeToMessage(t *testing.T) {
	env, err := NewEventEnvelope(TopicSweepCompleted, map[string]int{"succeeded": 3})
	require.NoError(t, err)

	msg, err := env.ToMessage(TopicSweepCompleted, "sweep-key")
	require.NoError(t, err)

	assert.Equal(t, TopicSweepCompleted, msg.Topic)
	assert.Equal(t, []byte("sweep-key"), msg.Key)
	assert.Equal(t, TopicSweepCompleted, msg.Headers["event-type"])
	assert.Equal(t, eventSource, msg.Headers["source"])
	assert.Equal(t, env.Timestamp, msg.Timestamp)

	var roundTrip EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &roundTrip))
	assert.Equal(t, env.ID, roundTrip.ID)

	var decoded map[string]int
	require.NoError(t, roundTrip.DecodePayload(&decoded))
	assert.Equal(t, 3, decoded["succeeded"])
}

func TestNewEntityUpdatedMessage(t *testing.T) {
	event := struct {
		common.BaseEvent
		RiskScore int `json:"risk_score"`
	}{
		BaseEvent: common.NewBaseEvent("entity-42"),
		RiskScore: 80,
	}

	msg, err := NewEntityUpdatedMessage(event)
	require.NoError(t, err)

	assert.Equal(t, TopicAnalyticsEntityUpdated, msg.Topic)
	assert.Equal(t, []byte("entity-42"), msg.Key)

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, TopicAnalyticsEntityUpdated, env.Type)

	var payload struct {
		AggregateID string `json:"aggregate_id"`
		RiskScore   int    `json:"risk_score"`
	}
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, "entity-42", payload.AggregateID)
	assert.Equal(t, 80, payload.RiskScore)
}
