package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/activities/internal/domain"
)

func TestListReturnsSeedInOrder(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRegistry()

	activities, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 9)
	require.Equal(t, "Chess Club", activities[0].Name)
	require.Equal(t, "Science Club", activities[8].Name)
	require.Equal(t, []string{"michael@mergington.edu", "daniel@mergington.edu"}, activities[0].Participants)
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRegistry()

	activities, err := store.List(ctx)
	require.NoError(t, err)

	activities[0].Participants[0] = "mutated@mergington.edu"

	fresh, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "michael@mergington.edu", fresh[0].Participants[0])
}

func TestAddParticipant(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRegistry()

	activity, err := store.AddParticipant(ctx, "Chess Club", "new@mergington.edu")
	require.NoError(t, err)
	require.Len(t, activity.Participants, 3)
	require.Contains(t, activity.Participants, "new@mergington.edu")
}

func TestAddParticipantUnknownActivity(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRegistry()

	_, err := store.AddParticipant(ctx, "Knitting Circle", "new@mergington.edu")
	require.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestAddParticipantDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRegistry()

	_, err := store.AddParticipant(ctx, "Chess Club", "michael@mergington.edu")
	require.ErrorIs(t, err, domain.ErrAlreadySignedUp)

	activities, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, activities[0].Participants, 2)
}

func TestRemoveParticipant(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRegistry()

	activity, err := store.RemoveParticipant(ctx, "Chess Club", "michael@mergington.edu")
	require.NoError(t, err)
	require.Equal(t, []string{"daniel@mergington.edu"}, activity.Participants)

	_, err = store.RemoveParticipant(ctx, "Chess Club", "michael@mergington.edu")
	require.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestRemoveParticipantUnknownActivity(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRegistry()

	_, err := store.RemoveParticipant(ctx, "Knitting Circle", "michael@mergington.edu")
	require.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestResetToSeed(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRegistry()

	_, err := store.AddParticipant(ctx, "Chess Club", "temp@mergington.edu")
	require.NoError(t, err)
	_, err = store.RemoveParticipant(ctx, "Gym Class", "john@mergington.edu")
	require.NoError(t, err)

	require.NoError(t, store.ResetToSeed(ctx))

	activities, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 9)
	require.Equal(t, []string{"michael@mergington.edu", "daniel@mergington.edu"}, activities[0].Participants)
	require.Contains(t, activities[2].Participants, "john@mergington.edu")
}

func TestConcurrentSignupsStayUnique(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRegistry()

	const workers = 32
	errCh := make(chan error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("student%d@mergington.edu", i)
			// Every worker also races on a shared email; exactly one must win.
			_, _ = store.AddParticipant(ctx, "Drama Club", "shared@mergington.edu")
			_, err := store.AddParticipant(ctx, "Drama Club", email)
			errCh <- err
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	activities, err := store.List(ctx)
	require.NoError(t, err)

	var drama domain.Activity
	for _, activity := range activities {
		if activity.Name == "Drama Club" {
			drama = activity
		}
	}

	seen := make(map[string]int)
	for _, participant := range drama.Participants {
		seen[participant]++
	}
	require.Equal(t, 1, seen["shared@mergington.edu"])
	require.Len(t, drama.Participants, 2+workers+1)
}
