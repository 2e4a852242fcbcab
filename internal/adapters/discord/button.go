package discord

import (
	"context"
	"errors"
	"log"

	"github.com/bwmarrin/discordgo"

	"guildbot/internal/domain"
)

const (
	btnJoinPrefix     = "btn_join_"
	btnWaitlistPrefix = "btn_waitlist_"
	btnLeavePrefix    = "btn_leave_"
	btnFinishPrefix   = "btn_finish_"
	btnManagePrefix   = "btn_manage_"
)

// HandleJoin opens the description modal when a slot is free. Nothing is reserved until the
// modal is submitted.
func (h *Handler) HandleJoin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	eventID, ok := customIDSuffix(i.MessageComponentData().CustomID, btnJoinPrefix)
	if !ok {
		return
	}
	event, err := h.eventUseCase.GetEvent(context.Background(), eventID)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.translateErr(i, err))
		return
	}
	userID := interactionUserID(i)
	switch {
	case event.AcceptedIndex(userID) >= 0:
		respondEphemeral(s, i.Interaction, h.translateErr(i, domain.ErrAlreadyAccepted))
		return
	case event.WaitlistIndex(userID) >= 0:
		respondEphemeral(s, i.Interaction, h.translateErr(i, domain.ErrAlreadyWaitlisted))
		return
	case event.IsFull():
		h.respondFull(s, i, eventID)
		return
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: joinModalPrefix + eventID,
			Title:    h.translate(i, "ui.modal_join_title", nil),
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "description",
						Label:       h.translate(i, "ui.label_description", nil),
						Style:       discordgo.TextInputShort,
						Required:    true,
						MaxLength:   descriptionMaxLength,
						Placeholder: h.translate(i, "ui.placeholder_description", nil),
					},
				}},
			},
		},
	}); err != nil {
		log.Printf("❌ Ouverture du formulaire d'inscription (event=%s): %v", eventID, err)
	}
}

// respondFull tells the user the event is full and offers the waitlist.
func (h *Handler) respondFull(s *discordgo.Session, i *discordgo.InteractionCreate, eventID string) {
	respondEphemeralComponents(s, i.Interaction, h.translateErr(i, domain.ErrCapacityExceeded), []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: h.translate(i, "ui.button_waitlist", nil), Style: discordgo.PrimaryButton, CustomID: btnWaitlistPrefix + eventID},
		}},
	})
}

func (h *Handler) HandleJoinWaitlist(s *discordgo.Session, i *discordgo.InteractionCreate) {
	eventID, ok := customIDSuffix(i.MessageComponentData().CustomID, btnWaitlistPrefix)
	if !ok {
		return
	}
	if err := h.participantUseCase.JoinWaitlist(context.Background(), eventID, interactionUserID(i)); err != nil {
		respondEphemeral(s, i.Interaction, h.translateErr(i, err))
		return
	}
	respondEphemeral(s, i.Interaction, h.translate(i, "success.waitlisted", nil))
}

func (h *Handler) HandleLeave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	eventID, ok := customIDSuffix(i.MessageComponentData().CustomID, btnLeavePrefix)
	if !ok {
		return
	}
	res, err := h.participantUseCase.Leave(context.Background(), eventID, interactionUserID(i))
	if err != nil {
		respondEphemeral(s, i.Interaction, h.translateErr(i, err))
		return
	}
	msg := h.translate(i, "success.left", nil)
	if res.PromotedID != "" {
		msg += "\n" + h.translate(i, "info.promoted_after_leave", map[string]any{"User": "<@" + res.PromotedID + ">"})
	}
	respondEphemeral(s, i.Interaction, msg)
}

// HandleFinish opens the summary modal for the creator or an admin.
func (h *Handler) HandleFinish(s *discordgo.Session, i *discordgo.InteractionCreate) {
	eventID, ok := customIDSuffix(i.MessageComponentData().CustomID, btnFinishPrefix)
	if !ok {
		return
	}
	event, err := h.eventUseCase.GetEvent(context.Background(), eventID)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.translateErr(i, err))
		return
	}
	if interactionUserID(i) != event.CreatorID && !h.isAdmin(i) {
		respondEphemeral(s, i.Interaction, h.translateErr(i, domain.ErrUnauthorized))
		return
	}
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: finishModalPrefix + eventID,
			Title:    h.translate(i, "ui.modal_finish_title", nil),
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "summary",
						Label:       h.translate(i, "ui.label_summary", nil),
						Style:       discordgo.TextInputParagraph,
						Required:    false,
						MaxLength:   1000,
						Placeholder: h.translate(i, "ui.placeholder_summary", nil),
					},
				}},
			},
		},
	}); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("❌ Ouverture du formulaire de clôture (event=%s): %v", eventID, err)
	}
}
