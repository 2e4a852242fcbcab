package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"guildbot/internal/domain/entities"
	"guildbot/internal/ports/output"
	pkgdiscord "guildbot/pkg/discord"
)

var (
	_ output.EventRenderer    = (*Notifier)(nil)
	_ output.ReminderNotifier = (*Notifier)(nil)
	_ output.TradeMessenger   = (*Notifier)(nil)
	_ output.DisplayDirectory = (*Notifier)(nil)
)

// Notifier performs every outbound chat side effect requested by the use cases.
// Messages not tied to an interaction are rendered in locale.
type Notifier struct {
	session    *discordgo.Session
	translator output.T
	locale     string
}

func NewNotifier(s *discordgo.Session, translator output.T, locale string) *Notifier {
	return &Notifier{session: s, translator: translator, locale: locale}
}

func (n *Notifier) t(key string, data map[string]any) string {
	return n.translator.T(n.locale, key, data)
}

func eventEmbedText(tr output.T, locale string, e *entities.Event) pkgdiscord.EventEmbedText {
	return pkgdiscord.EventEmbedText{
		TimeName:     tr.T(locale, "ui.field_time", nil),
		AcceptedName: tr.T(locale, "ui.field_accepted", map[string]any{"Count": len(e.Accepted), "Capacity": e.Capacity}),
		WaitlistName: tr.T(locale, "ui.field_waitlist", map[string]any{"Count": len(e.Waitlist)}),
		Empty:        tr.T(locale, "ui.field_empty", nil),
		Footer:       tr.T(locale, "ui.footer_created_by", map[string]any{"Name": e.CreatorName}),
	}
}

const buttonsPerRow = 3

// eventComponents builds the affordances of an open event announcement.
// The waitlist is only offered once Join reports the event full (respondFull).
func eventComponents(tr output.T, locale, eventID string) []discordgo.MessageComponent {
	buttons := []discordgo.MessageComponent{
		discordgo.Button{Label: tr.T(locale, "ui.button_join", nil), Style: discordgo.SuccessButton, CustomID: btnJoinPrefix + eventID},
		discordgo.Button{Label: tr.T(locale, "ui.button_leave", nil), Style: discordgo.DangerButton, CustomID: btnLeavePrefix + eventID},
		discordgo.Button{Label: tr.T(locale, "ui.button_manage", nil), Style: discordgo.SecondaryButton, CustomID: btnManagePrefix + eventID},
		discordgo.Button{Label: tr.T(locale, "ui.button_finish", nil), Style: discordgo.SecondaryButton, CustomID: btnFinishPrefix + eventID},
	}
	var components []discordgo.MessageComponent
	for i := 0; i < len(buttons); i += buttonsPerRow {
		end := min(i+buttonsPerRow, len(buttons))
		components = append(components, discordgo.ActionsRow{Components: buttons[i:end]})
	}
	return components
}

// RenderEvent regenerates the whole announcement from the snapshot.
func (n *Notifier) RenderEvent(ctx context.Context, event *entities.Event) error {
	embeds := []*discordgo.MessageEmbed{pkgdiscord.BuildEventEmbed(event, eventEmbedText(n.translator, n.locale, event))}
	components := eventComponents(n.translator, n.locale, event.ID)
	_, err := n.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         event.ID,
		Channel:    event.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit event message %s: %w", event.ID, err)
	}
	return nil
}

// RenderFinished replaces the announcement with the archived summary and drops the buttons.
func (n *Notifier) RenderFinished(ctx context.Context, event *entities.Event, record *entities.EventRecord) error {
	embed := pkgdiscord.BuildFinishedEmbed(record, pkgdiscord.FinishedEmbedText{
		Title:            n.t("ui.finished_title", map[string]any{"Title": event.Title}),
		ParticipantsName: n.t("ui.field_participants", map[string]any{"Count": len(record.Participants)}),
		SummaryName:      n.t("ui.field_summary", nil),
		Empty:            n.t("ui.field_empty", nil),
		Footer:           n.t("ui.footer_closed_by", map[string]any{"Name": record.ClosedBy}),
	})
	embeds := []*discordgo.MessageEmbed{embed}
	components := []discordgo.MessageComponent{}
	_, err := n.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         event.ID,
		Channel:    event.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit finished event %s: %w", event.ID, err)
	}
	return nil
}

// NotifyPromoted sends a direct message to a participant promoted from the waitlist.
func (n *Notifier) NotifyPromoted(ctx context.Context, event *entities.Event, userID string) error {
	ch, err := n.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open DM with %s: %w", userID, err)
	}
	_, err = n.session.ChannelMessageSend(ch.ID, n.t("info.promoted_dm", map[string]any{"Title": event.Title}), discordgo.WithContext(ctx))
	return err
}

// SendReminder replies to the announcement and mentions every accepted participant.
func (n *Notifier) SendReminder(ctx context.Context, event *entities.Event, offset time.Duration) error {
	ids := event.AcceptedIDs()
	mentions := make([]string, len(ids))
	for i, id := range ids {
		mentions[i] = pkgdiscord.Mention(id)
	}
	content := n.t("info.reminder", map[string]any{
		"Title":    event.Title,
		"In":       pkgdiscord.Timestamp(event.StartTime, "R"),
		"Offset":   offset.String(),
		"Mentions": strings.Join(mentions, " "),
	})
	_, err := n.session.ChannelMessageSendComplex(event.ChannelID, &discordgo.MessageSend{
		Content: content,
		Reference: &discordgo.MessageReference{
			MessageID: event.ID,
			ChannelID: event.ChannelID,
			GuildID:   event.GuildID,
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{Users: ids},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send reminder for %s: %w", event.ID, err)
	}
	return nil
}

// DisplayName resolves the guild nickname of userID, falling back to a mention.
func (n *Notifier) DisplayName(ctx context.Context, guildID, userID string) string {
	if guildID != "" {
		if m, err := n.session.State.Member(guildID, userID); err == nil {
			if name := resolveDisplayName(m); name != "" {
				return name
			}
		}
		m, err := n.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
		if err == nil {
			if name := resolveDisplayName(m); name != "" {
				return name
			}
		} else {
			log.Printf("⚠️ Nom d'affichage introuvable (guild=%s, user=%s): %v", guildID, userID, err)
		}
	}
	return pkgdiscord.Mention(userID)
}
