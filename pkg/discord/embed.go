package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"guildbot/internal/domain/entities"
)

const (
	embedColor         = 0x57F287
	embedFinishedColor = 0x95A5A6
	fieldValueLimit    = 1024
)

// EventEmbedText carries the translated labels of an event embed.
type EventEmbedText struct {
	TimeName     string
	AcceptedName string // already includes the n/capacity counter
	WaitlistName string
	Empty        string
	Footer       string
}

// FinishedEmbedText carries the translated labels of an archived event embed.
type FinishedEmbedText struct {
	Title            string
	ParticipantsName string
	SummaryName      string
	Empty            string
	Footer           string
}

func Mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

// FormatAccepted lists accepted participants in acceptance order with their description.
func FormatAccepted(signups []entities.Signup, empty string) string {
	if len(signups) == 0 {
		return empty
	}
	lines := make([]string, len(signups))
	for i, s := range signups {
		lines[i] = fmt.Sprintf("%s — %s", Mention(s.UserID), s.Description)
	}
	return truncateField(strings.Join(lines, "\n"))
}

// FormatWaitlist lists waitlisted participants in queue order.
func FormatWaitlist(waitlist []entities.WaitlistEntry, empty string) string {
	if len(waitlist) == 0 {
		return empty
	}
	lines := make([]string, len(waitlist))
	for i, w := range waitlist {
		lines[i] = Mention(w.UserID)
	}
	return truncateField(strings.Join(lines, "\n"))
}

// BuildEventEmbed regenerates the full announcement embed from an event snapshot.
func BuildEventEmbed(e *entities.Event, text EventEmbedText) *discordgo.MessageEmbed {
	timeValue := Timestamp(e.StartTime, "F") + " (" + Timestamp(e.StartTime, "R") + ")"
	return &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: text.TimeName, Value: timeValue, Inline: false},
			{Name: text.AcceptedName, Value: FormatAccepted(e.Accepted, text.Empty), Inline: true},
			{Name: text.WaitlistName, Value: FormatWaitlist(e.Waitlist, text.Empty), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: text.Footer},
	}
}

// BuildFinishedEmbed renders the archived state of an event.
func BuildFinishedEmbed(record *entities.EventRecord, text FinishedEmbedText) *discordgo.MessageEmbed {
	participants := text.Empty
	if len(record.Participants) > 0 {
		participants = truncateField("- " + strings.Join(record.Participants, "\n- "))
	}
	summary := record.Summary
	if summary == "" {
		summary = text.Empty
	}
	return &discordgo.MessageEmbed{
		Title: text.Title,
		Color: embedFinishedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: text.ParticipantsName, Value: participants},
			{Name: text.SummaryName, Value: truncateField(summary)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: text.Footer},
	}
}

func truncateField(s string) string {
	r := []rune(s)
	if len(r) <= fieldValueLimit {
		return s
	}
	return string(r[:fieldValueLimit-1]) + "…"
}
