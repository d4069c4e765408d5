// Package kafka carries the analysis lifecycle events between the API server
// and the worker fleet.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/x-ordo/evidentia/pkg/errors"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

const (
	TopicAnalysisRequested = "evidentia.analysis.requested"
	TopicAnalysisCompleted = "evidentia.analysis.completed"
	TopicDeadLetter        = "evidentia.analysis.dead_letter"
)

// EventEnvelope is the wire format shared by every topic.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// AnalysisRequestedPayload asks a worker to analyze a case's transcript.
type AnalysisRequestedPayload struct {
	CaseID      common.ID `json:"case_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// AnalysisCompletedPayload announces a finished analysis.
type AnalysisCompletedPayload struct {
	CaseID        common.ID        `json:"case_id"`
	TotalMessages int              `json:"total_messages"`
	RiskLevel     common.RiskLevel `json:"risk_level"`
	AnalyzedAt    time.Time        `json:"analyzed_at"`
}

// NewEventEnvelope wraps a payload for publication.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeSerialization, "event envelope has no payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode event payload")
	}
	return nil
}
