package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"guildbot/internal/domain"
)

const (
	selectRemovePrefix = "select_remove_"
	selectMaxOptions   = 25
)

// HandleManageParticipants shows the creator or an admin a menu of members to remove.
func (h *Handler) HandleManageParticipants(s *discordgo.Session, i *discordgo.InteractionCreate) {
	eventID, ok := customIDSuffix(i.MessageComponentData().CustomID, btnManagePrefix)
	if !ok {
		return
	}
	ctx := context.Background()
	event, err := h.eventUseCase.GetEvent(ctx, eventID)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.translateErr(i, err))
		return
	}
	if interactionUserID(i) != event.CreatorID && !h.isAdmin(i) {
		respondEphemeral(s, i.Interaction, h.translateErr(i, domain.ErrUnauthorized))
		return
	}

	options := make([]discordgo.SelectMenuOption, 0, len(event.Accepted)+len(event.Waitlist))
	for _, p := range event.Accepted {
		options = append(options, discordgo.SelectMenuOption{
			Label:       h.memberLabel(ctx, event.GuildID, p.UserID),
			Value:       p.UserID,
			Description: h.translate(i, "ui.option_accepted", nil),
		})
	}
	for _, w := range event.Waitlist {
		options = append(options, discordgo.SelectMenuOption{
			Label:       h.memberLabel(ctx, event.GuildID, w.UserID),
			Value:       w.UserID,
			Description: h.translate(i, "ui.option_waitlisted", nil),
		})
	}
	if len(options) == 0 {
		respondEphemeral(s, i.Interaction, h.translate(i, "info.no_participants", nil))
		return
	}
	if len(options) > selectMaxOptions {
		options = options[:selectMaxOptions]
	}

	respondEphemeralComponents(s, i.Interaction, h.translate(i, "ui.select_remove_prompt", nil), []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    selectRemovePrefix + eventID,
				Placeholder: h.translate(i, "ui.select_remove_placeholder", nil),
				Options:     options,
			},
		}},
	})
}

func (h *Handler) HandleRemove(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	eventID, ok := customIDSuffix(data.CustomID, selectRemovePrefix)
	if !ok || len(data.Values) == 0 {
		return
	}
	targetID := data.Values[0]
	res, err := h.participantUseCase.Remove(context.Background(), eventID, interactionUserID(i), interactionRoles(i), targetID)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.translateErr(i, err))
		return
	}
	msg := h.translate(i, "success.removed", map[string]any{"User": "<@" + targetID + ">"})
	if res.PromotedID != "" {
		msg += "\n" + h.translate(i, "info.promoted_after_leave", map[string]any{"User": "<@" + res.PromotedID + ">"})
	}
	respondEphemeral(s, i.Interaction, msg)
}

func (h *Handler) memberLabel(ctx context.Context, guildID, userID string) string {
	if h.directory != nil {
		if name := h.directory.DisplayName(ctx, guildID, userID); name != "" {
			return name
		}
	}
	return userID
}
