package input

import (
	"context"

	"guildbot/internal/domain/entities"
)

type EventUseCase interface {
	CreateEvent(ctx context.Context, event *entities.Event) error
	GetEvent(ctx context.Context, eventID string) (*entities.Event, error)
	ListEvents(ctx context.Context) ([]*entities.Event, error)
	FinishEvent(ctx context.Context, eventID, actorID string, actorRoles []string, summary string) (*entities.EventRecord, error)
	ListRecords(ctx context.Context, limit int) ([]entities.EventRecord, error)
}
