package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"guildbot/internal/domain/entities"
	pkgdiscord "guildbot/pkg/discord"
)

const (
	emojiInterest = "🤝"
	emojiAccept   = "✅"
	emojiComplete = "🏁"
)

// PostOffer publishes the offer. The interest reaction comes later through SeedAffordance.
func (n *Notifier) PostOffer(ctx context.Context, offer *entities.TradeOffer) (string, error) {
	msg, err := n.session.ChannelMessageSendComplex(offer.ChannelID, &discordgo.MessageSend{
		Content: n.t("trade.offer", map[string]any{
			"Poster": pkgdiscord.Mention(offer.PosterID),
			"Item":   offer.Item,
			"Emoji":  emojiInterest,
		}),
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send offer: %w", err)
	}
	return msg.ID, nil
}

// PostInterest replies to the offer and pings the poster.
func (n *Notifier) PostInterest(ctx context.Context, offer *entities.TradeOffer, interestedID string) (string, error) {
	msg, err := n.session.ChannelMessageSendComplex(offer.ChannelID, &discordgo.MessageSend{
		Content: n.t("trade.interest", map[string]any{
			"Poster":     pkgdiscord.Mention(offer.PosterID),
			"Interested": pkgdiscord.Mention(interestedID),
			"Item":       offer.Item,
			"Emoji":      emojiAccept,
		}),
		Reference: &discordgo.MessageReference{MessageID: offer.MessageID, ChannelID: offer.ChannelID},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{offer.PosterID},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send interest: %w", err)
	}
	return msg.ID, nil
}

// SeedAffordance adds the reaction that moves a trade message out of stage.
func (n *Notifier) SeedAffordance(ctx context.Context, channelID, messageID string, stage entities.TradeStage) error {
	emoji, ok := affordanceEmoji(stage)
	if !ok {
		return fmt.Errorf("no affordance for stage %s", stage)
	}
	if err := n.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add %s reaction: %w", emoji, err)
	}
	return nil
}

func affordanceEmoji(stage entities.TradeStage) (string, bool) {
	switch stage {
	case entities.TradeOffered:
		return emojiInterest, true
	case entities.TradeInterestDeclared:
		return emojiAccept, true
	case entities.TradeAccepted:
		return emojiComplete, true
	default:
		return "", false
	}
}

// MarkAccepted rewrites the interest message and swaps its affordance for the completion one.
func (n *Notifier) MarkAccepted(ctx context.Context, session *entities.TradeSession) error {
	content := n.t("trade.accepted", map[string]any{
		"Poster":     pkgdiscord.Mention(session.PosterID),
		"Interested": pkgdiscord.Mention(session.InterestedID),
		"Item":       session.Item,
		"Emoji":      emojiComplete,
	})
	if _, err := n.session.ChannelMessageEdit(session.ChannelID, session.InterestMessageID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit interest message: %w", err)
	}
	n.clearReactions(ctx, session.ChannelID, session.InterestMessageID)
	if err := n.SeedAffordance(ctx, session.ChannelID, session.InterestMessageID, entities.TradeAccepted); err != nil {
		log.Printf("⚠️ %v (message=%s)", err, session.InterestMessageID)
	}
	return nil
}

// AnnounceCompletion clears both messages and mentions the two parties.
func (n *Notifier) AnnounceCompletion(ctx context.Context, session *entities.TradeSession) error {
	n.clearReactions(ctx, session.ChannelID, session.InterestMessageID)
	n.clearReactions(ctx, session.ChannelID, session.TradePostID)
	_, err := n.session.ChannelMessageSendComplex(session.ChannelID, &discordgo.MessageSend{
		Content: n.t("trade.completed", map[string]any{
			"Poster":     pkgdiscord.Mention(session.PosterID),
			"Interested": pkgdiscord.Mention(session.InterestedID),
			"Item":       session.Item,
		}),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{session.PosterID, session.InterestedID},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("announce completion: %w", err)
	}
	return nil
}

// AnnounceExpired clears the stale interest message; the offer keeps its interest reaction.
func (n *Notifier) AnnounceExpired(ctx context.Context, session *entities.TradeSession) error {
	n.clearReactions(ctx, session.ChannelID, session.InterestMessageID)
	content := n.t("trade.expired", map[string]any{"Item": session.Item})
	if _, err := n.session.ChannelMessageEdit(session.ChannelID, session.InterestMessageID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit expired interest: %w", err)
	}
	return nil
}

func (n *Notifier) clearReactions(ctx context.Context, channelID, messageID string) {
	if err := n.session.MessageReactionsRemoveAll(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		log.Printf("⚠️ Suppression des réactions (message=%s): %v", messageID, err)
	}
}
