// Package stream delivers roster change events to Kafka.
package stream

import "time"

// Envelope is the wire representation of a roster change.
type Envelope struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Event type values carried in the event_type header and envelope.
const (
	EventTypeSignup  = "roster.signup"
	EventTypeRemoval = "roster.removal"
)
