package domain

// Activity is a single extracurricular offering students can join.
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}

// HasParticipant reports whether email is currently enrolled.
func (a *Activity) HasParticipant(email string) bool {
	for _, participant := range a.Participants {
		if participant == email {
			return true
		}
	}
	return false
}

// Clone returns a copy whose participant slice is independent of the original.
func (a *Activity) Clone() Activity {
	out := *a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

// Seed returns the fixed set of activities the registry starts from. Callers
// receive fresh copies and may mutate them freely.
func Seed() []Activity {
	return []Activity{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Programming Class",
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		{
			Name:            "Gym Class",
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		{
			Name:            "Basketball Team",
			Description:     "Join the school basketball team and compete in inter-school tournaments",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 6:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"james@mergington.edu", "lucas@mergington.edu"},
		},
		{
			Name:            "Swimming Club",
			Description:     "Improve swimming techniques and participate in swim meets",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"sarah@mergington.edu", "emily@mergington.edu"},
		},
		{
			Name:            "Drama Club",
			Description:     "Perform in school plays and develop acting skills",
			Schedule:        "Thursdays, 3:30 PM - 5:30 PM",
			MaxParticipants: 25,
			Participants:    []string{"lily@mergington.edu", "ava@mergington.edu"},
		},
		{
			Name:            "Art Class",
			Description:     "Explore painting, drawing, and sculpture techniques",
			Schedule:        "Wednesdays, 3:00 PM - 5:00 PM",
			MaxParticipants: 18,
			Participants:    []string{"mia@mergington.edu", "isabella@mergington.edu"},
		},
		{
			Name:            "Debate Team",
			Description:     "Develop argumentation skills and compete in debate competitions",
			Schedule:        "Tuesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 16,
			Participants:    []string{"ethan@mergington.edu", "noah@mergington.edu"},
		},
		{
			Name:            "Science Club",
			Description:     "Conduct experiments and participate in science fairs",
			Schedule:        "Fridays, 3:00 PM - 4:30 PM",
			MaxParticipants: 15,
			Participants:    []string{"william@mergington.edu", "alexander@mergington.edu"},
		},
	}
}
