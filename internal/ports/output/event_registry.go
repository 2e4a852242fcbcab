package output

import (
	"context"

	"guildbot/internal/domain/entities"
)

// EventRegistry holds live events. Update and Delete run fn under the event's own lock;
// operations on different events never wait on each other.
type EventRegistry interface {
	Create(ctx context.Context, event *entities.Event) error
	// Get returns a snapshot of the event.
	Get(ctx context.Context, id string) (*entities.Event, error)
	Update(ctx context.Context, id string, fn func(event *entities.Event) error) error
	// Delete runs fn under the event lock, then removes the event if fn returned nil.
	Delete(ctx context.Context, id string, fn func(event *entities.Event) error) error
	List(ctx context.Context) ([]*entities.Event, error)
}
