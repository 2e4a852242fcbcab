package discord

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"guildbot/internal/domain"
	pkgdiscord "guildbot/pkg/discord"
)

const (
	joinModalPrefix   = "join_modal_"
	finishModalPrefix = "finish_modal_"
)

func (h *Handler) HandleModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	if eventID, ok := customIDSuffix(data.CustomID, joinModalPrefix); ok {
		h.handleJoinSubmit(s, i, eventID, data)
		return
	}
	if eventID, ok := customIDSuffix(data.CustomID, finishModalPrefix); ok {
		h.handleFinishSubmit(s, i, eventID, data)
		return
	}
	log.Printf("⚠️ Formulaire inconnu: %s", data.CustomID)
}

// handleJoinSubmit consumes the slot. Capacity is checked again here since the event may have
// filled up while the modal was open.
func (h *Handler) handleJoinSubmit(s *discordgo.Session, i *discordgo.InteractionCreate, eventID string, data discordgo.ModalSubmitInteractionData) {
	description := strings.TrimSpace(pkgdiscord.ModalValue(data, "description"))
	err := h.participantUseCase.Join(context.Background(), eventID, interactionUserID(i), description)
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded):
		h.respondFull(s, i, eventID)
	case err != nil:
		respondEphemeral(s, i.Interaction, h.translateErr(i, err))
	default:
		respondEphemeral(s, i.Interaction, h.translate(i, "success.joined", nil))
	}
}

func (h *Handler) handleFinishSubmit(s *discordgo.Session, i *discordgo.InteractionCreate, eventID string, data discordgo.ModalSubmitInteractionData) {
	deferEphemeral(s, i.Interaction)
	summary := strings.TrimSpace(pkgdiscord.ModalValue(data, "summary"))
	record, err := h.eventUseCase.FinishEvent(context.Background(), eventID, interactionUserID(i), interactionRoles(i), summary)
	if err != nil {
		if domain.Code(err) == "" {
			log.Printf("❌ Clôture de l'événement %s: %v", eventID, err)
		}
		editResponse(s, i.Interaction, h.translateErr(i, err))
		return
	}
	editResponse(s, i.Interaction, h.translate(i, "success.finished", map[string]any{
		"Title": record.Title,
		"Count": len(record.Participants),
	}))
}
