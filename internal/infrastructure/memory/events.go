package memory

import (
	"context"
	"errors"

	"guildbot/internal/domain"
	"guildbot/internal/domain/entities"
	"guildbot/internal/ports/output"
)

var _ output.EventRegistry = (*EventRegistry)(nil)

// EventRegistry keeps live events for the lifetime of the process.
type EventRegistry struct {
	events *Registry[*entities.Event]
}

func NewEventRegistry() *EventRegistry {
	return &EventRegistry{events: NewRegistry[*entities.Event]()}
}

func (r *EventRegistry) Create(_ context.Context, event *entities.Event) error {
	if err := r.events.Insert(event.ID, event.Clone()); err != nil {
		return domain.ErrEventExists
	}
	return nil
}

func (r *EventRegistry) Get(_ context.Context, id string) (*entities.Event, error) {
	var out *entities.Event
	err := r.events.With(id, func(e *entities.Event) error {
		out = e.Clone()
		return nil
	})
	return out, mapEventErr(err)
}

func (r *EventRegistry) Update(_ context.Context, id string, fn func(*entities.Event) error) error {
	return mapEventErr(r.events.With(id, fn))
}

func (r *EventRegistry) Delete(_ context.Context, id string, fn func(*entities.Event) error) error {
	return mapEventErr(r.events.Remove(id, fn))
}

func (r *EventRegistry) List(_ context.Context) ([]*entities.Event, error) {
	keys := r.events.Keys()
	out := make([]*entities.Event, 0, len(keys))
	for _, k := range keys {
		_ = r.events.With(k, func(e *entities.Event) error {
			out = append(out, e.Clone())
			return nil
		})
	}
	return out, nil
}

func mapEventErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return domain.ErrEventNotFound
	}
	return err
}
