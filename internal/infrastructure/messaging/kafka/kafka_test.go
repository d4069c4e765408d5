package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-ordo/evidentia/internal/config"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafkago.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) all() []kafkago.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafkago.Message(nil), w.messages...)
}

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafkago.Message
	committed []kafkago.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func envelopeMessage(t *testing.T, topic string, payload interface{}) kafkago.Message {
	t.Helper()
	env, err := NewEventEnvelope(topic, "test", payload)
	require.NoError(t, err)
	data, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Topic: topic, Key: []byte("case-1"), Value: data}
}

func workerCfg() config.WorkerConfig {
	return config.WorkerConfig{Concurrency: 1, MaxRetries: 2, RetryBackoffMS: time.Millisecond}
}

// ─────────────────────────────────────────────────────────────────────────────
// Producer
// ─────────────────────────────────────────────────────────────────────────────

func TestProducer_PublishAnalysisRequested(t *testing.T) {
	writer := &fakeWriter{}
	p := NewProducerWithWriter(writer, "apiserver", logging.NewNopLogger())

	err := p.PublishAnalysisRequested(context.Background(), "case-1")
	require.NoError(t, err)

	msgs := writer.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, TopicAnalysisRequested, msgs[0].Topic)
	assert.Equal(t, []byte("case-1"), msgs[0].Key)

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msgs[0].Value, &env))
	assert.Equal(t, TopicAnalysisRequested, env.EventType)
	assert.Equal(t, "apiserver", env.Source)
	assert.NotEmpty(t, env.EventID)

	var payload AnalysisRequestedPayload
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, common.ID("case-1"), payload.CaseID)
}

func TestProducer_PublishAnalysisCompleted(t *testing.T) {
	writer := &fakeWriter{}
	p := NewProducerWithWriter(writer, "worker", logging.NewNopLogger())

	result := &types.AnalysisResult{
		CaseID:         "case-2",
		TotalMessages:  120,
		RiskAssessment: types.RiskAssessment{RiskLevel: common.RiskCritical},
		AnalyzedAt:     time.Now().UTC(),
	}
	require.NoError(t, p.PublishAnalysisCompleted(context.Background(), result))

	msgs := writer.all()
	require.Len(t, msgs, 1)

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msgs[0].Value, &env))
	var payload AnalysisCompletedPayload
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, 120, payload.TotalMessages)
	assert.Equal(t, common.RiskCritical, payload.RiskLevel)
}

func TestProducer_CarriesRequestIDAsTraceID(t *testing.T) {
	writer := &fakeWriter{}
	p := NewProducerWithWriter(writer, "apiserver", logging.NewNopLogger())

	ctx := logging.WithRequestID(context.Background(), "req-42")
	require.NoError(t, p.PublishAnalysisRequested(ctx, "case-1"))

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(writer.all()[0].Value, &env))
	assert.Equal(t, "req-42", env.TraceID)
}

func TestProducer_ClosedRejectsPublish(t *testing.T) {
	writer := &fakeWriter{}
	p := NewProducerWithWriter(writer, "apiserver", logging.NewNopLogger())

	require.NoError(t, p.Close())
	err := p.PublishAnalysisRequested(context.Background(), "case-1")
	assert.ErrorIs(t, err, ErrProducerClosed)
	assert.True(t, writer.closed)
}

// ─────────────────────────────────────────────────────────────────────────────
// Consumer
// ─────────────────────────────────────────────────────────────────────────────

func TestConsumer_HandlesAndCommits(t *testing.T) {
	reader := &fakeReader{queue: []kafkago.Message{
		envelopeMessage(t, TopicAnalysisRequested, AnalysisRequestedPayload{CaseID: "case-1"}),
		envelopeMessage(t, TopicAnalysisRequested, AnalysisRequestedPayload{CaseID: "case-2"}),
	}}

	var mu sync.Mutex
	var seen []common.ID
	handler := func(_ context.Context, env *EventEnvelope) error {
		var p AnalysisRequestedPayload
		if err := env.DecodePayload(&p); err != nil {
			return err
		}
		mu.Lock()
		seen = append(seen, p.CaseID)
		mu.Unlock()
		return nil
	}

	c := NewConsumerWithReader(reader, workerCfg(), TopicAnalysisRequested, handler, logging.NewNopLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, c.Run(ctx))

	assert.ElementsMatch(t, []common.ID{"case-1", "case-2"}, seen)
	assert.Len(t, reader.committed, 2)
}

func TestConsumer_RetriesThenDeadLetters(t *testing.T) {
	reader := &fakeReader{queue: []kafkago.Message{
		envelopeMessage(t, TopicAnalysisRequested, AnalysisRequestedPayload{CaseID: "case-1"}),
	}}
	deadLetter := &fakeWriter{}

	attempts := 0
	handler := func(context.Context, *EventEnvelope) error {
		attempts++
		return assert.AnError
	}

	c := NewConsumerWithReader(reader, workerCfg(), TopicAnalysisRequested, handler,
		logging.NewNopLogger(), WithDeadLetterWriter(deadLetter))
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	require.NoError(t, c.Run(ctx))

	assert.Equal(t, 3, attempts) // initial try + 2 retries
	require.Len(t, deadLetter.all(), 1)
	assert.Equal(t, TopicDeadLetter, deadLetter.all()[0].Topic)
	// The poisoned message is still committed so the group moves on.
	assert.Len(t, reader.committed, 1)
}

func TestConsumer_UndecodableMessageGoesStraightToDeadLetter(t *testing.T) {
	reader := &fakeReader{queue: []kafkago.Message{
		{Topic: TopicAnalysisRequested, Key: []byte("case-1"), Value: []byte("{broken")},
	}}
	deadLetter := &fakeWriter{}

	handler := func(context.Context, *EventEnvelope) error {
		t.Fatal("handler must not run for undecodable messages")
		return nil
	}

	c := NewConsumerWithReader(reader, workerCfg(), TopicAnalysisRequested, handler,
		logging.NewNopLogger(), WithDeadLetterWriter(deadLetter))
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, c.Run(ctx))

	require.Len(t, deadLetter.all(), 1)
}
