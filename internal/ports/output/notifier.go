package output

import (
	"context"
	"time"

	"guildbot/internal/domain/entities"
)

// EventRenderer redraws the announcement of an event from a full snapshot.
type EventRenderer interface {
	RenderEvent(ctx context.Context, event *entities.Event) error
	RenderFinished(ctx context.Context, event *entities.Event, record *entities.EventRecord) error
	// NotifyPromoted tells a waitlisted participant they took a freed slot.
	NotifyPromoted(ctx context.Context, event *entities.Event, userID string) error
}

// ReminderNotifier delivers one reminder mentioning every accepted participant.
type ReminderNotifier interface {
	SendReminder(ctx context.Context, event *entities.Event, offset time.Duration) error
}

// TradeMessenger performs the chat side effects of each trade transition.
type TradeMessenger interface {
	// PostOffer publishes the offer and returns the message ID.
	PostOffer(ctx context.Context, offer *entities.TradeOffer) (string, error)
	// PostInterest replies to the offer asking the poster to accept; returns the interest message ID.
	PostInterest(ctx context.Context, offer *entities.TradeOffer, interestedID string) (string, error)
	// SeedAffordance adds the reaction that advances a message out of stage.
	// Called only once the offer or session is stored.
	SeedAffordance(ctx context.Context, channelID, messageID string, stage entities.TradeStage) error
	MarkAccepted(ctx context.Context, session *entities.TradeSession) error
	AnnounceCompletion(ctx context.Context, session *entities.TradeSession) error
	AnnounceExpired(ctx context.Context, session *entities.TradeSession) error
}

// DisplayDirectory resolves a user ID to the name shown in the guild.
type DisplayDirectory interface {
	DisplayName(ctx context.Context, guildID, userID string) string
}

// Authorizer answers the static allow-list question.
type Authorizer interface {
	IsAdmin(userID string, roleIDs []string) bool
}
