package discord

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"guildbot/internal/domain"
	"guildbot/internal/domain/entities"
)

// stubTrades records which trade operation a reaction reached.
type stubTrades struct {
	calls []string
	roles []string
	err   error
}

func (s *stubTrades) OfferTrade(context.Context, string, string, string) (*entities.TradeOffer, error) {
	s.calls = append(s.calls, "offer")
	return nil, s.err
}

func (s *stubTrades) DeclareInterest(_ context.Context, msgID, actorID string) (*entities.TradeSession, error) {
	s.calls = append(s.calls, "interest:"+msgID+":"+actorID)
	return nil, s.err
}

func (s *stubTrades) Accept(_ context.Context, msgID, actorID string) (*entities.TradeSession, error) {
	s.calls = append(s.calls, "accept:"+msgID+":"+actorID)
	return nil, s.err
}

func (s *stubTrades) Complete(_ context.Context, msgID, actorID string, roles []string) (*entities.TradeSession, error) {
	s.calls = append(s.calls, "complete:"+msgID+":"+actorID)
	s.roles = roles
	return nil, s.err
}

func TestHandleReaction_RoutesEmojiToOperation(t *testing.T) {
	tests := []struct {
		emoji string
		want  []string
	}{
		{emojiInterest, []string{"interest:m1:u1"}},
		{emojiAccept, []string{"accept:m1:u1"}},
		{emojiComplete, []string{"complete:m1:u1"}},
		{"👍", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.emoji), func(t *testing.T) {
			trades := &stubTrades{}
			h := &Handler{tradeUseCase: trades}
			h.HandleReaction("c1", "m1", "u1", []string{"r1"}, tt.emoji)
			assert.Equal(t, tt.want, trades.calls)
		})
	}
}

func TestHandleReaction_PassesRolesToComplete(t *testing.T) {
	trades := &stubTrades{}
	h := &Handler{tradeUseCase: trades}
	h.HandleReaction("c1", "m1", "admin", []string{"mods"}, emojiComplete)
	assert.Equal(t, []string{"mods"}, trades.roles)
}

func TestHandleReaction_SurvivesEveryOutcome(t *testing.T) {
	for _, err := range []error{nil, domain.ErrTradeNotFound, domain.ErrNotPoster, errors.New("discord down")} {
		trades := &stubTrades{err: err}
		h := &Handler{tradeUseCase: trades}
		assert.NotPanics(t, func() { h.HandleReaction("c1", "m1", "u1", nil, emojiAccept) })
		assert.Len(t, trades.calls, 1)
	}
}

func TestClassifyReaction(t *testing.T) {
	assert.Equal(t, reactionApplied, classifyReaction(nil))
	assert.Equal(t, reactionUntracked, classifyReaction(domain.ErrTradeNotFound))
	assert.Equal(t, reactionUntracked, classifyReaction(fmt.Errorf("lookup: %w", domain.ErrTradeNotFound)))
	assert.Equal(t, reactionIgnored, classifyReaction(domain.ErrNotPoster))
	assert.Equal(t, reactionIgnored, classifyReaction(domain.ErrUnauthorized))
	assert.Equal(t, reactionIgnored, classifyReaction(domain.ErrStageMismatch))
	assert.Equal(t, reactionFailed, classifyReaction(errors.New("discord down")))
}

func TestHumanReaction(t *testing.T) {
	reaction := func(userID string, member *discordgo.Member) *discordgo.MessageReactionAdd {
		return &discordgo.MessageReactionAdd{
			MessageReaction: &discordgo.MessageReaction{
				UserID:    userID,
				MessageID: "m1",
				ChannelID: "c1",
				Emoji:     discordgo.Emoji{Name: emojiAccept},
			},
			Member: member,
		}
	}

	roles, ok := humanReaction("bot", reaction("u1", &discordgo.Member{User: &discordgo.User{ID: "u1"}, Roles: []string{"r1"}}))
	assert.True(t, ok)
	assert.Equal(t, []string{"r1"}, roles)

	_, ok = humanReaction("bot", reaction("bot", nil))
	assert.False(t, ok, "own seeded reactions are skipped")

	_, ok = humanReaction("bot", reaction("other-bot", &discordgo.Member{User: &discordgo.User{ID: "other-bot", Bot: true}}))
	assert.False(t, ok, "other bots are skipped")

	roles, ok = humanReaction("", reaction("u1", nil))
	assert.True(t, ok, "reactions without member data still count")
	assert.Nil(t, roles)

	_, ok = humanReaction("bot", &discordgo.MessageReactionAdd{})
	assert.False(t, ok)
}
