package stream

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"example.com/activities/internal/domain"
)

type stubWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	attempts int
	err      error
}

func (w *stubWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.attempts++
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *stubWriter) Close() error { return nil }

func (w *stubWriter) captured() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]kafka.Message, len(w.messages))
	copy(out, w.messages)
	return out
}

func TestPublisherDeliversEnvelopes(t *testing.T) {
	writer := &stubWriter{}
	publisher := NewPublisher(writer, 8)

	ctx, cancel := context.WithCancel(context.Background())
	go publisher.Start(ctx)

	occurred := time.Date(2026, time.August, 31, 15, 0, 0, 0, time.UTC)
	publisher.Publish(domain.RosterChange{
		Kind:       domain.RosterSignup,
		Activity:   "Chess Club",
		Email:      "new@mergington.edu",
		OccurredAt: occurred,
	})
	publisher.Publish(domain.RosterChange{
		Kind:       domain.RosterRemoval,
		Activity:   "Gym Class",
		Email:      "john@mergington.edu",
		OccurredAt: occurred,
	})

	require.Eventually(t, func() bool {
		return len(writer.captured()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	publisher.Wait()

	msgs := writer.captured()
	require.Equal(t, "Chess Club", string(msgs[0].Key))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(msgs[0].Value, &envelope))
	require.Equal(t, EventTypeSignup, envelope.EventType)
	require.Equal(t, "new@mergington.edu", envelope.Email)
	require.Equal(t, occurred, envelope.OccurredAt)
	require.NotEmpty(t, envelope.EventID)

	require.Len(t, msgs[1].Headers, 1)
	require.Equal(t, "event_type", msgs[1].Headers[0].Key)
	require.Equal(t, EventTypeRemoval, string(msgs[1].Headers[0].Value))
}

func TestPublisherDrainsBufferOnShutdown(t *testing.T) {
	writer := &stubWriter{}
	publisher := NewPublisher(writer, 8)

	// Enqueue before the loop starts so the events sit in the buffer.
	for i := 0; i < 5; i++ {
		publisher.Publish(domain.RosterChange{
			Kind:       domain.RosterSignup,
			Activity:   "Art Class",
			Email:      "student@mergington.edu",
			OccurredAt: time.Now().UTC(),
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	go publisher.Start(ctx)
	publisher.Wait()

	require.Len(t, writer.captured(), 5)
}

func TestPublisherDropsWhenBufferFull(t *testing.T) {
	writer := &stubWriter{}
	publisher := NewPublisher(writer, 1)

	// Loop not started: the second publish cannot be buffered.
	publisher.Publish(domain.RosterChange{Kind: domain.RosterSignup, Activity: "Chess Club"})
	publisher.Publish(domain.RosterChange{Kind: domain.RosterSignup, Activity: "Chess Club"})

	require.Len(t, publisher.events, 1)
}

func TestPublisherSurvivesWriteFailure(t *testing.T) {
	writer := &stubWriter{err: errors.New("broker unavailable")}
	publisher := NewPublisher(writer, 8)

	ctx, cancel := context.WithCancel(context.Background())
	go publisher.Start(ctx)

	publisher.Publish(domain.RosterChange{Kind: domain.RosterSignup, Activity: "Chess Club"})

	// Wait for the failed attempt, then let deliveries succeed again.
	require.Eventually(t, func() bool {
		writer.mu.Lock()
		defer writer.mu.Unlock()
		return writer.attempts == 1
	}, 2*time.Second, 10*time.Millisecond)

	writer.mu.Lock()
	writer.err = nil
	writer.mu.Unlock()

	publisher.Publish(domain.RosterChange{Kind: domain.RosterRemoval, Activity: "Gym Class"})

	require.Eventually(t, func() bool {
		return len(writer.captured()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	publisher.Wait()
}
