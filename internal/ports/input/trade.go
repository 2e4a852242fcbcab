package input

import (
	"context"

	"guildbot/internal/domain/entities"
)

type TradeUseCase interface {
	OfferTrade(ctx context.Context, posterID, channelID, query string) (*entities.TradeOffer, error)
	DeclareInterest(ctx context.Context, offerMessageID, actorID string) (*entities.TradeSession, error)
	Accept(ctx context.Context, interestMessageID, actorID string) (*entities.TradeSession, error)
	Complete(ctx context.Context, interestMessageID, actorID string, actorRoles []string) (*entities.TradeSession, error)
}
