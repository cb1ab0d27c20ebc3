// Package kafka publishes analytics domain events.  The platform is a pure
// producer; downstream consumers (dashboards, alerting pipelines) live in
// other services.
package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/CaseRisk-Intelligence/internal/config"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CaseRisk-Intelligence/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.ErrCodeMessagingError, "producer closed")

// defaultMaxMessageBytes caps a single event payload.
const defaultMaxMessageBytes = 1 << 20

// Message is one outbound Kafka message.
type Message struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
	Stats() kafka.WriterStats
}

// Producer publishes messages with hash partitioning on the message key, so
// all events for one entity land on one partition in order.
type Producer struct {
	writer          WriterInterface
	cfg             config.KafkaConfig
	logger          logging.Logger
	metrics         *prometheus.AppMetrics
	closed          atomic.Bool
	maxMessageBytes int
}

// NewProducer builds a Producer from configuration.  metrics may be nil.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger, metrics *prometheus.AppMetrics) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}

	batchSize := cfg.BatchSize
	if batchSize == 0 {
		batchSize = 100
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.ProducerRetries + 1,
		BatchSize:    batchSize,
		BatchTimeout: time.Second,
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
	}

	return &Producer{
		writer:          writer,
		cfg:             cfg,
		logger:          logger,
		metrics:         metrics,
		maxMessageBytes: defaultMaxMessageBytes,
	}, nil
}

// NewProducerWithWriter injects a writer, for tests.
func NewProducerWithWriter(writer WriterInterface, logger logging.Logger, metrics *prometheus.AppMetrics) *Producer {
	return &Producer{
		writer:          writer,
		logger:          logger,
		metrics:         metrics,
		maxMessageBytes: defaultMaxMessageBytes,
	}
}

// Publish sends a single message synchronously.
func (p *Producer) Publish(ctx context.Context, msg *Message) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if msg.Topic == "" {
		return errors.New(errors.ErrCodeValidation, "message topic required")
	}
	if len(msg.Value) == 0 {
		return errors.New(errors.ErrCodeValidation, "message value required")
	}
	if len(msg.Value) > p.maxMessageBytes {
		return errors.New(errors.ErrCodeValidation, "message exceeds size limit")
	}

	started := time.Now()
	err := p.writer.WriteMessages(ctx, toKafkaMessage(msg))
	prometheus.RecordEventPublish(p.metrics, msg.Topic, err)
	if err != nil {
		p.logger.Error("kafka publish failed",
			logging.String("topic", msg.Topic), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeMessagingError, "publish failed")
	}

	p.logger.Debug("message published",
		logging.String("topic", msg.Topic),
		logging.Duration("latency", time.Since(started)),
	)
	return nil
}

// Close flushes and shuts the producer down.  Safe to call more than once.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	if err != nil {
		p.logger.Error("failed to close kafka producer", logging.Err(err))
		return err
	}
	p.logger.Info("kafka producer closed")
	return nil
}

func toKafkaMessage(msg *Message) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return kafka.Message{
		Topic:   msg.Topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
		Time:    ts,
	}
}
