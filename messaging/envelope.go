// Package messaging publishes yard events to Kafka so downstream consumers
// (planning, reporting, alerting) can follow asset state without polling.
package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Envelope wraps every outbound event with identity and provenance.
type Envelope struct {
	Kind      string    `json:"kind"`
	MsgID     string    `json:"msg_id"`
	YardID    string    `json:"yard_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// RawEnvelope is used for two-stage unmarshalling: decode the envelope first,
// then decode the payload based on kind.
type RawEnvelope struct {
	Kind      string          `json:"kind"`
	MsgID     string          `json:"msg_id"`
	YardID    string          `json:"yard_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEnvelope creates an outbound envelope with a fresh UUID and timestamp.
func NewEnvelope(kind, yardID string, payload any) *Envelope {
	return &Envelope{
		Kind:      kind,
		MsgID:     uuid.New().String(),
		YardID:    yardID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

func (e *Envelope) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return data, nil
}

func DecodeEnvelope(data []byte) (*RawEnvelope, error) {
	var raw RawEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if raw.Kind == "" {
		return nil, fmt.Errorf("decode envelope: missing kind")
	}
	return &raw, nil
}
