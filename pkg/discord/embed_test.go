package discord

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildbot/internal/domain"
	"guildbot/internal/domain/entities"
)

var testEmbedText = EventEmbedText{
	TimeName:     "Time",
	AcceptedName: "Accepted (2/3)",
	WaitlistName: "Waitlist",
	Empty:        "-",
	Footer:       "Created by Alice",
}

func TestBuildEventEmbed(t *testing.T) {
	e := &entities.Event{
		Title:       "Raid",
		Description: "Bring potions",
		Capacity:    3,
		StartTime:   time.Unix(1899747000, 0),
		Accepted: []entities.Signup{
			{UserID: "1", Description: "tank"},
			{UserID: "2", Description: "healer"},
		},
	}

	embed := BuildEventEmbed(e, testEmbedText)
	assert.Equal(t, "Raid", embed.Title)
	assert.Equal(t, "Bring potions", embed.Description)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "<t:1899747000:F> (<t:1899747000:R>)", embed.Fields[0].Value)
	assert.Equal(t, "Accepted (2/3)", embed.Fields[1].Name)
	assert.Equal(t, "<@1> — tank\n<@2> — healer", embed.Fields[1].Value)
	assert.Equal(t, "-", embed.Fields[2].Value)
	assert.Equal(t, "Created by Alice", embed.Footer.Text)
}

func TestFormatWaitlist_KeepsQueueOrder(t *testing.T) {
	got := FormatWaitlist([]entities.WaitlistEntry{{UserID: "9"}, {UserID: "3"}}, "-")
	assert.Equal(t, "<@9>\n<@3>", got)
}

func TestFormatAccepted_TruncatesToFieldLimit(t *testing.T) {
	signups := make([]entities.Signup, 60)
	for i := range signups {
		signups[i] = entities.Signup{UserID: "123456789012345678", Description: strings.Repeat("x", 30)}
	}
	got := FormatAccepted(signups, "-")
	assert.Equal(t, fieldValueLimit, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestBuildFinishedEmbed(t *testing.T) {
	text := FinishedEmbedText{Title: "Raid (finished)", ParticipantsName: "Participants", SummaryName: "Summary", Empty: "-", Footer: "Closed by Bob"}

	embed := BuildFinishedEmbed(&entities.EventRecord{Participants: []string{"Ann — tank", "Bo — dps"}}, text)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "- Ann — tank\n- Bo — dps", embed.Fields[0].Value)
	assert.Equal(t, "-", embed.Fields[1].Value)

	embed = BuildFinishedEmbed(&entities.EventRecord{Summary: "All good"}, text)
	assert.Equal(t, "-", embed.Fields[0].Value)
	assert.Equal(t, "All good", embed.Fields[1].Value)
}

func TestModalValue(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: "join_modal_1",
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "description", Value: "tank"},
			}},
		},
	}
	assert.Equal(t, "tank", ModalValue(data, "description"))
	assert.Empty(t, ModalValue(data, "summary"))
}

func TestErrorKey(t *testing.T) {
	assert.Equal(t, "errors.capacity_exceeded", ErrorKey(domain.ErrCapacityExceeded))
	assert.Equal(t, "errors.already_waitlisted", ErrorKey(domain.ErrAlreadyWaitlisted))
	assert.Equal(t, "errors.invalid_time_format", ErrorKey(domain.ErrInvalidTimeFormat))
	assert.Equal(t, "errors.generic", ErrorKey(assert.AnError))
	assert.Empty(t, ErrorKey(nil))
}
