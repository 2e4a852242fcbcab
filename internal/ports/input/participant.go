package input

import (
	"context"

	"guildbot/internal/application"
)

type ParticipantUseCase interface {
	Join(ctx context.Context, eventID, userID, description string) error
	JoinWaitlist(ctx context.Context, eventID, userID string) error
	Leave(ctx context.Context, eventID, userID string) (application.LeaveResult, error)
	Remove(ctx context.Context, eventID, actorID string, actorRoles []string, targetID string) (application.LeaveResult, error)
}
