package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/x-ordo/evidentia/internal/config"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "kafka producer is closed")

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes analysis lifecycle events.  It satisfies the
// application layer's EventPublisher port.
type Producer struct {
	writer WriterInterface
	source string
	logger logging.Logger
	closed atomic.Bool
}

// NewProducer builds a producer writing to the configured brokers.  Messages
// are keyed by case id so per-case ordering survives partitioning.
func NewProducer(cfg config.KafkaConfig, source string, log logging.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.ProducerRetries + 1,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
	return NewProducerWithWriter(writer, source, log)
}

// NewProducerWithWriter wraps an existing writer. Used by tests.
func NewProducerWithWriter(writer WriterInterface, source string, log logging.Logger) *Producer {
	return &Producer{writer: writer, source: source, logger: log}
}

// PublishAnalysisRequested emits a work item for the worker fleet.
func (p *Producer) PublishAnalysisRequested(ctx context.Context, caseID common.ID) error {
	payload := AnalysisRequestedPayload{CaseID: caseID, RequestedAt: time.Now().UTC()}
	return p.publish(ctx, TopicAnalysisRequested, string(caseID), payload)
}

// PublishAnalysisCompleted announces a finished analysis to downstream
// consumers.
func (p *Producer) PublishAnalysisCompleted(ctx context.Context, result *types.AnalysisResult) error {
	payload := AnalysisCompletedPayload{
		CaseID:        result.CaseID,
		TotalMessages: result.TotalMessages,
		RiskLevel:     result.RiskAssessment.RiskLevel,
		AnalyzedAt:    result.AnalyzedAt,
	}
	return p.publish(ctx, TopicAnalysisCompleted, string(result.CaseID), payload)
}

func (p *Producer) publish(ctx context.Context, topic, key string, payload interface{}) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	envelope, err := NewEventEnvelope(topic, p.source, payload)
	if err != nil {
		return err
	}
	if rid := logging.RequestIDFromContext(ctx); rid != "" {
		envelope.TraceID = rid
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event envelope")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(topic)},
			{Key: "event_id", Value: []byte(envelope.EventID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("event publish failed",
			logging.String("topic", topic),
			logging.String("key", key),
			logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to publish event")
	}

	p.logger.Debug("event published",
		logging.String("topic", topic),
		logging.String("event_id", envelope.EventID))
	return nil
}

// Close flushes and shuts the writer down.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.writer.Close()
}
