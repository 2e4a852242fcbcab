package entities

import (
	"time"

	"github.com/google/uuid"
)

// EventRecord is the immutable archive of a finished event.
type EventRecord struct {
	ID           uuid.UUID
	EventID      string
	Title        string
	Participants []string // display name and description, acceptance order
	Summary      string
	ClosedBy     string
	FinishedAt   time.Time
}
