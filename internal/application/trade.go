package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"guildbot/internal/domain"
	"guildbot/internal/domain/entities"
	"guildbot/internal/ports/output"
)

// TradeService runs the offer -> interest -> accept -> complete handshake.
// The first interested party claims an offer; later interest is rejected with ErrOfferTaken.
type TradeService struct {
	store     output.TradeStore
	vault     *VaultService
	messenger output.TradeMessenger
	auth      output.Authorizer
	metrics   output.Metrics
	ttl       time.Duration
	now       func() time.Time
}

func NewTradeService(
	store output.TradeStore,
	vault *VaultService,
	messenger output.TradeMessenger,
	auth output.Authorizer,
	metrics output.Metrics,
	sessionTTL time.Duration,
) *TradeService {
	if metrics == nil {
		metrics = output.NopMetrics{}
	}
	return &TradeService{
		store:     store,
		vault:     vault,
		messenger: messenger,
		auth:      auth,
		metrics:   metrics,
		ttl:       sessionTTL,
		now:       time.Now,
	}
}

// OfferTrade posts the first vault item of posterID matching query.
func (s *TradeService) OfferTrade(ctx context.Context, posterID, channelID, query string) (*entities.TradeOffer, error) {
	item, err := s.vault.FindItem(ctx, posterID, query)
	if err != nil {
		return nil, err
	}
	offer := &entities.TradeOffer{
		ChannelID: channelID,
		PosterID:  posterID,
		Item:      item,
		Stage:     entities.TradeOffered,
		CreatedAt: s.now(),
	}
	msgID, err := s.messenger.PostOffer(ctx, offer)
	if err != nil {
		return nil, fmt.Errorf("post offer: %w", err)
	}
	offer.MessageID = msgID
	if err := s.store.CreateOffer(ctx, offer); err != nil {
		return nil, err
	}
	s.seed(ctx, offer.ChannelID, msgID, entities.TradeOffered)
	s.metrics.Trade(entities.TradeOffered.String())
	log.Printf("🤝 Offre %s publiée par %s: %q", msgID, posterID, item)
	return offer, nil
}

// DeclareInterest claims the offer for actorID and opens a session on the posted interest message.
func (s *TradeService) DeclareInterest(ctx context.Context, offerMessageID, actorID string) (*entities.TradeSession, error) {
	var session *entities.TradeSession
	err := s.store.UpdateOffer(ctx, offerMessageID, func(o *entities.TradeOffer) error {
		if o.PosterID == actorID {
			return domain.ErrSelfTrade
		}
		if o.Stage != entities.TradeOffered || o.SessionID != "" {
			return domain.ErrOfferTaken
		}
		interestID, err := s.messenger.PostInterest(ctx, o, actorID)
		if err != nil {
			return fmt.Errorf("post interest: %w", err)
		}
		now := s.now()
		session = &entities.TradeSession{
			InterestMessageID: interestID,
			TradePostID:       o.MessageID,
			ChannelID:         o.ChannelID,
			PosterID:          o.PosterID,
			InterestedID:      actorID,
			Item:              o.Item,
			Stage:             entities.TradeInterestDeclared,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.store.CreateSession(ctx, session); err != nil {
			return err
		}
		o.Stage = entities.TradeInterestDeclared
		o.SessionID = interestID
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Seeded outside the offer lock: Accept takes the session lock and then the offer lock.
	s.seed(ctx, session.ChannelID, session.InterestMessageID, entities.TradeInterestDeclared)
	s.metrics.Trade(entities.TradeInterestDeclared.String())
	return session.Clone(), nil
}

// Accept moves the session to Accepted. Only the poster may accept.
func (s *TradeService) Accept(ctx context.Context, interestMessageID, actorID string) (*entities.TradeSession, error) {
	var out *entities.TradeSession
	err := s.store.UpdateSession(ctx, interestMessageID, func(t *entities.TradeSession) error {
		if t.Stage != entities.TradeInterestDeclared {
			return domain.ErrStageMismatch
		}
		if actorID != t.PosterID {
			return domain.ErrNotPoster
		}
		t.Stage = entities.TradeAccepted
		t.UpdatedAt = s.now()
		if err := s.store.UpdateOffer(ctx, t.TradePostID, func(o *entities.TradeOffer) error {
			o.Stage = entities.TradeAccepted
			return nil
		}); err != nil && !errors.Is(err, domain.ErrTradeNotFound) {
			return err
		}
		out = t.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.messenger.MarkAccepted(ctx, out); err != nil {
		log.Printf("❌ Mise à jour du message d'acceptation %s: %v", interestMessageID, err)
	}
	s.metrics.Trade(entities.TradeAccepted.String())
	return out, nil
}

// Complete closes an accepted trade. Only admins may complete; the session and offer are discarded.
func (s *TradeService) Complete(ctx context.Context, interestMessageID, actorID string, actorRoles []string) (*entities.TradeSession, error) {
	if !s.auth.IsAdmin(actorID, actorRoles) {
		return nil, domain.ErrUnauthorized
	}
	var out *entities.TradeSession
	err := s.store.DeleteSession(ctx, interestMessageID, func(t *entities.TradeSession) error {
		if t.Stage != entities.TradeAccepted {
			return domain.ErrStageMismatch
		}
		if err := s.store.DeleteOffer(ctx, t.TradePostID); err != nil && !errors.Is(err, domain.ErrTradeNotFound) {
			return err
		}
		t.Stage = entities.TradeCompleted
		t.UpdatedAt = s.now()
		out = t.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.messenger.AnnounceCompletion(ctx, out); err != nil {
		log.Printf("❌ Annonce de fin d'échange %s: %v", interestMessageID, err)
	}
	s.metrics.Trade(entities.TradeCompleted.String())
	log.Printf("🤝 Échange %s terminé (%s -> %s)", interestMessageID, out.PosterID, out.InterestedID)
	return out, nil
}

// ExpireIdle discards sessions untouched for longer than the configured TTL and reopens their offers.
// It returns the number of expired sessions; a zero TTL disables expiry.
func (s *TradeService) ExpireIdle(ctx context.Context, now time.Time) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, candidate := range sessions {
		var gone *entities.TradeSession
		err := s.store.DeleteSession(ctx, candidate.InterestMessageID, func(t *entities.TradeSession) error {
			// Re-check under the lock; the session may have moved since the listing.
			if now.Sub(t.UpdatedAt) < s.ttl {
				return errNotIdle
			}
			if err := s.store.UpdateOffer(ctx, t.TradePostID, func(o *entities.TradeOffer) error {
				o.Stage = entities.TradeOffered
				o.SessionID = ""
				return nil
			}); err != nil && !errors.Is(err, domain.ErrTradeNotFound) {
				return err
			}
			gone = t.Clone()
			return nil
		})
		switch {
		case errors.Is(err, errNotIdle), errors.Is(err, domain.ErrTradeNotFound):
			continue
		case err != nil:
			return expired, err
		}
		expired++
		s.metrics.Trade("expired")
		if err := s.messenger.AnnounceExpired(ctx, gone); err != nil {
			log.Printf("❌ Nettoyage de l'échange expiré %s: %v", gone.InterestMessageID, err)
		}
	}
	return expired, nil
}

func (s *TradeService) seed(ctx context.Context, channelID, messageID string, stage entities.TradeStage) {
	if err := s.messenger.SeedAffordance(ctx, channelID, messageID, stage); err != nil {
		log.Printf("⚠️ Réaction initiale (message=%s, étape=%s): %v", messageID, stage, err)
	}
}

var errNotIdle = errors.New("session not idle")
