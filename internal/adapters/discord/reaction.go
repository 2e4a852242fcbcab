package discord

import (
	"context"
	"errors"
	"log"
	"time"

	"guildbot/internal/domain"
)

// reactionTimeout bounds the chat calls made while advancing a trade.
const reactionTimeout = 15 * time.Second

// HandleReaction advances the trade handshake. Reactions on messages that are not tracked
// offers or sessions, and signals from the wrong actor, are ignored without feedback.
func (h *Handler) HandleReaction(channelID, messageID, userID string, roles []string, emoji string) {
	ctx, cancel := context.WithTimeout(context.Background(), reactionTimeout)
	defer cancel()

	var err error
	switch emoji {
	case emojiInterest:
		_, err = h.tradeUseCase.DeclareInterest(ctx, messageID, userID)
	case emojiAccept:
		_, err = h.tradeUseCase.Accept(ctx, messageID, userID)
	case emojiComplete:
		_, err = h.tradeUseCase.Complete(ctx, messageID, userID, roles)
	default:
		return
	}
	switch classifyReaction(err) {
	case reactionIgnored:
		log.Printf("ℹ️ Réaction %s ignorée (channel=%s, message=%s, user=%s): %v", emoji, channelID, messageID, userID, err)
	case reactionFailed:
		log.Printf("❌ Réaction %s (message=%s, user=%s): %v", emoji, messageID, userID, err)
	}
}

type reactionOutcome int

const (
	reactionApplied reactionOutcome = iota
	// reactionUntracked: the message is not an open offer or session.
	reactionUntracked
	// reactionIgnored: wrong actor or stage.
	reactionIgnored
	reactionFailed
)

func classifyReaction(err error) reactionOutcome {
	switch {
	case err == nil:
		return reactionApplied
	case errors.Is(err, domain.ErrTradeNotFound):
		return reactionUntracked
	case domain.Code(err) != "":
		return reactionIgnored
	default:
		return reactionFailed
	}
}
