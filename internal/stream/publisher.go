package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"example.com/activities/internal/domain"
)

// Publisher delivers roster changes to Kafka from a buffered channel so HTTP
// handlers never block on the broker. A full buffer drops the event and counts
// the drop rather than stalling a request.
type Publisher struct {
	writer           Writer
	writeTimeout     time.Duration
	events           chan domain.RosterChange
	shutdownComplete chan struct{}
}

// NewPublisher constructs a Publisher with the given buffer capacity.
func NewPublisher(writer Writer, buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Publisher{
		writer:           writer,
		writeTimeout:     5 * time.Second,
		events:           make(chan domain.RosterChange, buffer),
		shutdownComplete: make(chan struct{}),
	}
}

// Start launches the delivery loop. It should be called in a goroutine.
// Buffered events are drained before shutdown completes.
func (p *Publisher) Start(ctx context.Context) {
	defer close(p.shutdownComplete)

	for {
		select {
		case <-ctx.Done():
			p.drain()
			return
		case change := <-p.events:
			p.deliver(change)
		}
	}
}

// Wait blocks until the delivery loop has stopped.
func (p *Publisher) Wait() {
	<-p.shutdownComplete
}

// Publish enqueues a roster change without blocking.
func (p *Publisher) Publish(change domain.RosterChange) {
	select {
	case p.events <- change:
	default:
		droppedCounter.Inc()
		log.Printf("stream: buffer full, dropped %s event for %q", change.Kind, change.Activity)
	}
}

func (p *Publisher) drain() {
	for {
		select {
		case change := <-p.events:
			p.deliver(change)
		default:
			return
		}
	}
}

func (p *Publisher) deliver(change domain.RosterChange) {
	envelope := Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType(change.Kind),
		Activity:   change.Activity,
		Email:      change.Email,
		OccurredAt: change.OccurredAt,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		failedCounter.Inc()
		log.Printf("stream: marshal failure: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(change.Activity),
		Value: payload,
		Time:  change.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(envelope.EventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
		failedCounter.Inc()
		log.Printf("stream: delivery failure: %v", err)
		return
	}
	deliveredCounter.Inc()
}

func eventType(kind domain.RosterChangeKind) string {
	if kind == domain.RosterRemoval {
		return EventTypeRemoval
	}
	return EventTypeSignup
}

// Nop discards roster changes. Used when no brokers are configured.
type Nop struct{}

// Publish implements domain.RosterPublisher.
func (Nop) Publish(domain.RosterChange) {}
