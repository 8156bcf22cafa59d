// Package registry provides the in-memory activity store used by default.
package registry

import (
	"context"
	"sync"

	"example.com/activities/internal/domain"
)

// InMemoryRegistry stores activities in process memory. All state lives behind
// a single RWMutex so check-then-mutate operations are atomic.
type InMemoryRegistry struct {
	mu         sync.RWMutex
	activities map[string]*domain.Activity
	order      []string
}

// NewInMemoryRegistry constructs a registry populated with the seed roster.
func NewInMemoryRegistry() *InMemoryRegistry {
	r := &InMemoryRegistry{}
	r.load(domain.Seed())
	return r
}

func (r *InMemoryRegistry) load(seed []domain.Activity) {
	r.activities = make(map[string]*domain.Activity, len(seed))
	r.order = make([]string, 0, len(seed))
	for _, activity := range seed {
		copied := activity.Clone()
		r.activities[copied.Name] = &copied
		r.order = append(r.order, copied.Name)
	}
}

// List returns copies of every activity in seed order.
func (r *InMemoryRegistry) List(ctx context.Context) ([]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Activity, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.activities[name].Clone())
	}
	return out, nil
}

// AddParticipant enrolls email in the named activity and returns the updated
// activity. The registry is unchanged when an error is returned.
func (r *InMemoryRegistry) AddParticipant(ctx context.Context, activityName, email string) (*domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[activityName]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	if activity.HasParticipant(email) {
		return nil, domain.ErrAlreadySignedUp
	}

	activity.Participants = append(activity.Participants, email)
	updated := activity.Clone()
	return &updated, nil
}

// RemoveParticipant unenrolls email from the named activity and returns the
// updated activity. The registry is unchanged when an error is returned.
func (r *InMemoryRegistry) RemoveParticipant(ctx context.Context, activityName, email string) (*domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[activityName]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}

	for i, participant := range activity.Participants {
		if participant == email {
			activity.Participants = append(activity.Participants[:i], activity.Participants[i+1:]...)
			updated := activity.Clone()
			return &updated, nil
		}
	}
	return nil, domain.ErrParticipantNotFound
}

// ResetToSeed discards all mutations and restores the seed roster.
func (r *InMemoryRegistry) ResetToSeed(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.load(domain.Seed())
	return nil
}
