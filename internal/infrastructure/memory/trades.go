package memory

import (
	"context"
	"errors"

	"guildbot/internal/domain"
	"guildbot/internal/domain/entities"
	"guildbot/internal/ports/output"
)

var _ output.TradeStore = (*TradeStore)(nil)

type TradeStore struct {
	offers   *Registry[*entities.TradeOffer]
	sessions *Registry[*entities.TradeSession]
}

func NewTradeStore() *TradeStore {
	return &TradeStore{
		offers:   NewRegistry[*entities.TradeOffer](),
		sessions: NewRegistry[*entities.TradeSession](),
	}
}

func (s *TradeStore) CreateOffer(_ context.Context, offer *entities.TradeOffer) error {
	o := *offer
	return s.offers.Insert(offer.MessageID, &o)
}

func (s *TradeStore) UpdateOffer(_ context.Context, messageID string, fn func(*entities.TradeOffer) error) error {
	return mapTradeErr(s.offers.With(messageID, fn))
}

func (s *TradeStore) DeleteOffer(_ context.Context, messageID string) error {
	return mapTradeErr(s.offers.Remove(messageID, nil))
}

func (s *TradeStore) CreateSession(_ context.Context, session *entities.TradeSession) error {
	return s.sessions.Insert(session.InterestMessageID, session.Clone())
}

func (s *TradeStore) GetSession(_ context.Context, id string) (*entities.TradeSession, error) {
	var out *entities.TradeSession
	err := s.sessions.With(id, func(t *entities.TradeSession) error {
		out = t.Clone()
		return nil
	})
	return out, mapTradeErr(err)
}

func (s *TradeStore) UpdateSession(_ context.Context, id string, fn func(*entities.TradeSession) error) error {
	return mapTradeErr(s.sessions.With(id, fn))
}

func (s *TradeStore) DeleteSession(_ context.Context, id string, fn func(*entities.TradeSession) error) error {
	return mapTradeErr(s.sessions.Remove(id, fn))
}

func (s *TradeStore) ListSessions(_ context.Context) ([]*entities.TradeSession, error) {
	keys := s.sessions.Keys()
	out := make([]*entities.TradeSession, 0, len(keys))
	for _, k := range keys {
		_ = s.sessions.With(k, func(t *entities.TradeSession) error {
			out = append(out, t.Clone())
			return nil
		})
	}
	return out, nil
}

func mapTradeErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return domain.ErrTradeNotFound
	}
	return err
}
