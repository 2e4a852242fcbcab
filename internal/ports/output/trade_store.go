package output

import (
	"context"

	"guildbot/internal/domain/entities"
)

// TradeStore keeps offers keyed by offer message ID and sessions keyed by interest message ID.
// When both locks are needed, the session is locked before the offer.
type TradeStore interface {
	CreateOffer(ctx context.Context, offer *entities.TradeOffer) error
	UpdateOffer(ctx context.Context, messageID string, fn func(offer *entities.TradeOffer) error) error
	DeleteOffer(ctx context.Context, messageID string) error

	CreateSession(ctx context.Context, session *entities.TradeSession) error
	GetSession(ctx context.Context, interestMessageID string) (*entities.TradeSession, error)
	UpdateSession(ctx context.Context, interestMessageID string, fn func(session *entities.TradeSession) error) error
	DeleteSession(ctx context.Context, interestMessageID string, fn func(session *entities.TradeSession) error) error
	ListSessions(ctx context.Context) ([]*entities.TradeSession, error)
}
