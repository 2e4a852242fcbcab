package entities

import (
	"slices"
	"time"
)

// NoDescription is attached to participants promoted from the waitlist.
const NoDescription = "No description provided."

// Signup is one accepted participant with the free-text description they submitted.
type Signup struct {
	UserID      string
	Description string
	JoinedAt    time.Time
}

// WaitlistEntry is a participant queued behind a full event.
type WaitlistEntry struct {
	UserID   string
	JoinedAt time.Time
}

// Event is the live state of one announced event. ID is the announcement message ID.
type Event struct {
	ID          string
	ChannelID   string
	GuildID     string
	CreatorID   string
	CreatorName string
	Title       string
	Description string
	Capacity    int
	StartTime   time.Time // always UTC
	Accepted    []Signup
	Waitlist    []WaitlistEntry
	CreatedAt   time.Time
}

func (e *Event) IsFull() bool {
	return len(e.Accepted) >= e.Capacity
}

func (e *Event) AcceptedIndex(userID string) int {
	return slices.IndexFunc(e.Accepted, func(s Signup) bool { return s.UserID == userID })
}

func (e *Event) WaitlistIndex(userID string) int {
	return slices.IndexFunc(e.Waitlist, func(w WaitlistEntry) bool { return w.UserID == userID })
}

// AcceptedIDs returns accepted participant IDs in acceptance order.
func (e *Event) AcceptedIDs() []string {
	ids := make([]string, len(e.Accepted))
	for i, s := range e.Accepted {
		ids[i] = s.UserID
	}
	return ids
}

// Clone returns a deep copy safe to read outside the registry lock.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	c.Accepted = slices.Clone(e.Accepted)
	c.Waitlist = slices.Clone(e.Waitlist)
	return &c
}
