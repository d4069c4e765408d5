package kafka

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"github.com/x-ordo/evidentia/internal/config"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
)

// Handler processes one decoded event.  A nil return commits the message;
// an error triggers retries and eventually the dead-letter topic.
type Handler func(ctx context.Context, envelope *EventEnvelope) error

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer pulls analysis events off one topic and feeds them to a handler
// with bounded concurrency.
type Consumer struct {
	reader     ReaderInterface
	deadLetter WriterInterface
	handler    Handler
	logger     logging.Logger

	topic       string
	concurrency int
	maxRetries  int
	backoff     time.Duration
}

// ConsumerOption customizes a Consumer.
type ConsumerOption func(*Consumer)

// WithDeadLetterWriter routes messages that exhaust their retries to the
// dead-letter topic instead of dropping them.
func WithDeadLetterWriter(w WriterInterface) ConsumerOption {
	return func(c *Consumer) { c.deadLetter = w }
}

// NewConsumer builds a consumer-group reader for the given topic.
func NewConsumer(kafkaCfg config.KafkaConfig, workerCfg config.WorkerConfig, topic string, handler Handler, log logging.Logger, opts ...ConsumerOption) *Consumer {
	startOffset := kafka.LastOffset
	if kafkaCfg.AutoOffsetReset == "earliest" {
		startOffset = kafka.FirstOffset
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     kafkaCfg.Brokers,
		GroupID:     kafkaCfg.GroupID,
		Topic:       topic,
		StartOffset: startOffset,
		MinBytes:    1,
		MaxBytes:    10 * 1024 * 1024,
	})
	return newConsumer(reader, workerCfg, topic, handler, log, opts...)
}

// NewConsumerWithReader wraps an existing reader. Used by tests.
func NewConsumerWithReader(reader ReaderInterface, workerCfg config.WorkerConfig, topic string, handler Handler, log logging.Logger, opts ...ConsumerOption) *Consumer {
	return newConsumer(reader, workerCfg, topic, handler, log, opts...)
}

func newConsumer(reader ReaderInterface, workerCfg config.WorkerConfig, topic string, handler Handler, log logging.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		reader:      reader,
		handler:     handler,
		logger:      log.Named("consumer").With(logging.String("topic", topic)),
		topic:       topic,
		concurrency: workerCfg.Concurrency,
		maxRetries:  workerCfg.MaxRetries,
		backoff:     workerCfg.RetryBackoffMS,
	}
	if c.concurrency <= 0 {
		c.concurrency = 1
	}
	if c.backoff <= 0 {
		c.backoff = 500 * time.Millisecond
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run consumes until the context is cancelled.  Messages are committed only
// after the handler succeeds or the message is dead-lettered, so a crash
// re-delivers in-flight work.
func (c *Consumer) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < c.concurrency; i++ {
		g.Go(func() error {
			return c.consumeLoop(ctx)
		})
	}
	err := g.Wait()
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (c *Consumer) consumeLoop(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to fetch message")
		}
		c.process(ctx, msg)
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("commit failed", logging.Err(err))
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	var envelope EventEnvelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		c.logger.Error("undecodable event, dead-lettering",
			logging.Int64("offset", msg.Offset),
			logging.Err(err))
		c.sendToDeadLetter(ctx, msg)
		return
	}

	log := c.logger.With(logging.String("event_id", envelope.EventID))
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}
		err := c.handler(ctx, &envelope)
		if err == nil {
			return
		}
		log.Warn("event handling failed",
			logging.Int("attempt", attempt+1),
			logging.Err(err))
	}

	log.Error("event retries exhausted, dead-lettering")
	c.sendToDeadLetter(ctx, msg)
}

func (c *Consumer) sendToDeadLetter(ctx context.Context, msg kafka.Message) {
	if c.deadLetter == nil {
		return
	}
	dead := kafka.Message{
		Topic: TopicDeadLetter,
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(msg.Headers, kafka.Header{
			Key: "origin_topic", Value: []byte(c.topic),
		}),
	}
	if err := c.deadLetter.WriteMessages(ctx, dead); err != nil {
		c.logger.Error("dead-letter publish failed", logging.Err(err))
	}
}

// Close shuts the reader down.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
