// Package domain defines the business logic for the activities registry.
package domain

import (
	"context"
	"errors"
	"time"

	"example.com/activities/internal/observability"
)

var (
	// ErrActivityNotFound is returned when the named activity is not in the registry.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadySignedUp indicates the email is already enrolled in the activity.
	ErrAlreadySignedUp = errors.New("student already signed up for this activity")
	// ErrParticipantNotFound indicates the email is not enrolled in the activity.
	ErrParticipantNotFound = errors.New("participant not found for this activity")
)

// Registry captures store operations over the activity roster. Mutations are
// atomic check-then-act: on error the store is left unchanged.
type Registry interface {
	List(ctx context.Context) ([]Activity, error)
	AddParticipant(ctx context.Context, activityName, email string) (*Activity, error)
	RemoveParticipant(ctx context.Context, activityName, email string) (*Activity, error)
	ResetToSeed(ctx context.Context) error
}

// RosterChangeKind discriminates published roster changes.
type RosterChangeKind string

const (
	RosterSignup  RosterChangeKind = "signup"
	RosterRemoval RosterChangeKind = "removal"
)

// RosterChange describes a signup or removal applied to the registry.
type RosterChange struct {
	Kind       RosterChangeKind
	Activity   string
	Email      string
	OccurredAt time.Time
}

// RosterPublisher emits roster changes to downstream consumers.
type RosterPublisher interface {
	Publish(change RosterChange)
}

// Service orchestrates registry access, metrics, and event publication.
type Service struct {
	registry  Registry
	publisher RosterPublisher
}

// NewService constructs a Service.
func NewService(registry Registry, publisher RosterPublisher) *Service {
	return &Service{registry: registry, publisher: publisher}
}

// ListActivities returns the current state of every activity.
func (s *Service) ListActivities(ctx context.Context) ([]Activity, error) {
	return s.registry.List(ctx)
}

// Signup enrolls email in the named activity.
func (s *Service) Signup(ctx context.Context, activityName, email string) (*Activity, error) {
	activity, err := s.registry.AddParticipant(ctx, activityName, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrActivityNotFound):
			observability.RecordRejectedSignup("unknown_activity")
		case errors.Is(err, ErrAlreadySignedUp):
			observability.RecordRejectedSignup("duplicate")
		}
		return nil, err
	}

	observability.RecordSignup(activity.Name, len(activity.Participants))
	s.publisher.Publish(RosterChange{
		Kind:       RosterSignup,
		Activity:   activity.Name,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	})
	return activity, nil
}

// RemoveParticipant unenrolls email from the named activity.
func (s *Service) RemoveParticipant(ctx context.Context, activityName, email string) (*Activity, error) {
	activity, err := s.registry.RemoveParticipant(ctx, activityName, email)
	if err != nil {
		return nil, err
	}

	observability.RecordRemoval(activity.Name, len(activity.Participants))
	s.publisher.Publish(RosterChange{
		Kind:       RosterRemoval,
		Activity:   activity.Name,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	})
	return activity, nil
}

// Reset restores every activity to the seed roster.
func (s *Service) Reset(ctx context.Context) error {
	return s.registry.ResetToSeed(ctx)
}
