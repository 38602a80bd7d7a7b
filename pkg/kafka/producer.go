package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes encoded values to a single topic.
type Producer struct {
	w     MessageWriter
	topic string
	codec string
}

// NewProducer creates a producer writing to cfg.Topic.
func NewProducer(cfg ProducerConfig) (*Producer, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return NewProducerWithWriter(cfg.writer(), cfg.Topic, cfg.Compression), nil
}

// NewProducerWithWriter wraps w, which must already target topic.
func NewProducerWithWriter(w MessageWriter, topic, compression string) *Producer {
	producerMetricsOnce.Do(registerProducerMetrics)
	return &Producer{w: w, topic: topic, codec: compression}
}

func (p *Producer) Topic() string { return p.topic }

// Publish writes one message. []byte and string values are sent as is,
// anything else as JSON.
func (p *Producer) Publish(ctx context.Context, key []byte, value interface{}, headers ...kafka.Header) error {
	payload, err := encode(value)
	if err != nil {
		return err
	}

	start := time.Now()
	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:     key,
		Value:   payload,
		Headers: headers,
		Time:    start,
	})
	p.observe(len(payload), time.Since(start), err)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes buffered messages.
func (p *Producer) Close() error {
	if p.w == nil {
		return nil
	}
	return p.w.Close()
}

func encode(v interface{}) ([]byte, error) {
	switch val := v.(type) {
	case []byte:
		return val, nil
	case string:
		return []byte(val), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return b, nil
}

var (
	producerMetricsOnce sync.Once

	producedMessages *prometheus.CounterVec
	producedBytes    *prometheus.CounterVec
	publishLatency   *prometheus.HistogramVec
)

func registerProducerMetrics() {
	producedMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hurstlab_kafka_produced_messages_total",
		Help: "Messages handed to the Kafka writer, by outcome.",
	}, []string{"topic", "result"})
	producedBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hurstlab_kafka_produced_bytes_total",
		Help: "Uncompressed payload bytes written.",
	}, []string{"topic", "compression"})
	publishLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hurstlab_kafka_publish_duration_seconds",
		Help:    "WriteMessages latency.",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"topic"})
}

func (p *Producer) observe(n int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	} else {
		producedBytes.WithLabelValues(p.topic, p.codec).Add(float64(n))
	}
	producedMessages.WithLabelValues(p.topic, result).Inc()
	publishLatency.WithLabelValues(p.topic).Observe(d.Seconds())
}
