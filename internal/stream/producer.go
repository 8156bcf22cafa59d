package stream

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Writer abstracts the Kafka writer so tests can supply a stub.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a kafka-go writer for the roster events topic.
// Messages are keyed by activity name so per-activity ordering is preserved.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
}
