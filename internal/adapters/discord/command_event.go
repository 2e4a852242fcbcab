package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"guildbot/internal/domain/entities"
	pkgdiscord "guildbot/pkg/discord"
)

// handleCreateEvent posts the announcement, registers the event and attaches its buttons.
func (h *Handler) handleCreateEvent(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	opts := optionMap(data.Options)
	title := stringOption(opts, "title")
	description := stringOption(opts, "description")
	capacity := h.config.DefaultCapacity
	if o, ok := opts["capacity"]; ok && o.Type == discordgo.ApplicationCommandOptionInteger {
		capacity = int(o.IntValue())
	}

	start, err := pkgdiscord.ParseEventTime(stringOption(opts, "time"), h.config.Location(), time.Now())
	if err != nil {
		respondEphemeral(s, i.Interaction, h.translateErr(i, err))
		return
	}

	event := &entities.Event{
		GuildID:     i.GuildID,
		CreatorID:   interactionUserID(i),
		CreatorName: interactionDisplayName(i),
		Title:       title,
		Description: description,
		Capacity:    capacity,
		StartTime:   start,
	}
	embed := pkgdiscord.BuildEventEmbed(event, eventEmbedText(h.translator, "", event))
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	}); err != nil {
		log.Printf("❌ Publication de l'événement %q: %v", title, err)
		return
	}
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil || msg == nil {
		log.Printf("❌ Récupération du message de l'événement %q: %v", title, err)
		return
	}
	event.ID = msg.ID
	event.ChannelID = msg.ChannelID

	ctx := context.Background()
	if err := h.eventUseCase.CreateEvent(ctx, event); err != nil {
		log.Printf("❌ Erreur lors de la sauvegarde de l'événement: %v", err)
		_ = s.InteractionResponseDelete(i.Interaction)
		_, _ = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: h.translateErr(i, err),
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		return
	}
	// The first render attaches the buttons, which need the message ID.
	components := eventComponents(h.translator, "", event.ID)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Components: &components}); err != nil {
		log.Printf("❌ Ajout des boutons à l'événement %s: %v", event.ID, err)
	}
}

func (h *Handler) handleListEvents(s *discordgo.Session, i *discordgo.InteractionCreate) {
	events, err := h.eventUseCase.ListEvents(context.Background())
	if err != nil {
		respondEphemeral(s, i.Interaction, h.translateErr(i, err))
		return
	}
	events = guildEvents(events, i.GuildID)
	if len(events) == 0 {
		respondEphemeral(s, i.Interaction, h.translate(i, "info.no_events", nil))
		return
	}
	var b strings.Builder
	b.WriteString(h.translate(i, "info.events_header", nil))
	for _, e := range events {
		b.WriteString(fmt.Sprintf("\n• **%s** — %s — %d/%d", e.Title, pkgdiscord.Timestamp(e.StartTime, "f"), len(e.Accepted), e.Capacity))
		if e.ChannelID != "" && e.GuildID != "" {
			b.WriteString(fmt.Sprintf(" — https://discord.com/channels/%s/%s/%s", e.GuildID, e.ChannelID, e.ID))
		}
	}
	respondEphemeral(s, i.Interaction, b.String())
}

// guildEvents keeps the events announced in guildID, preserving order.
func guildEvents(events []*entities.Event, guildID string) []*entities.Event {
	var out []*entities.Event
	for _, e := range events {
		if e.GuildID == guildID {
			out = append(out, e)
		}
	}
	return out
}

func (h *Handler) handleListRecords(s *discordgo.Session, i *discordgo.InteractionCreate) {
	records, err := h.eventUseCase.ListRecords(context.Background(), recordsListLimit)
	if err != nil {
		log.Printf("❌ Lecture des archives: %v", err)
		respondEphemeral(s, i.Interaction, h.translateErr(i, err))
		return
	}
	if len(records) == 0 {
		respondEphemeral(s, i.Interaction, h.translate(i, "info.no_records", nil))
		return
	}
	var b strings.Builder
	b.WriteString(h.translate(i, "info.records_header", nil))
	for _, r := range records {
		b.WriteString(h.translate(i, "info.record_line", map[string]any{
			"Title":    r.Title,
			"Count":    len(r.Participants),
			"ClosedBy": r.ClosedBy,
			"When":     pkgdiscord.Timestamp(r.FinishedAt, "d"),
		}))
	}
	respondEphemeral(s, i.Interaction, b.String())
}
