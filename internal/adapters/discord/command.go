package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	cmdEvent   = "event"
	cmdEvents  = "events"
	cmdRecords = "records"
	cmdVault   = "vault"
	cmdTrade   = "trade"

	descriptionMaxLength = 100
	recordsListLimit     = 10
)

func ptr[T any](v T) *T { return &v }

// commands is the slash command set registered on connect.
func commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        cmdEvent,
			Description: "Create a custom event embed",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "title", Description: "Title of your event", Required: true, MaxLength: 256},
				{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "Description for the event", Required: true, MaxLength: 2000},
				{Type: discordgo.ApplicationCommandOptionString, Name: "time", Description: "Start time, e.g. 2026-03-14 20:30 or a <t:…> timestamp", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "capacity", Description: "Number of slots", MinValue: ptr(1.0), MaxValue: 100},
			},
		},
		{Name: cmdEvents, Description: "List upcoming events"},
		{Name: cmdRecords, Description: "Show recently finished events"},
		{
			Name:        cmdVault,
			Description: "Manage your item vault",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "add", Description: "Add an item to your vault",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "item", Description: "Item description", Required: true, MaxLength: 200},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "remove", Description: "Remove an item from your vault",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "item", Description: "Exact item description", Required: true},
					},
				},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "List a vault",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Whose vault (defaults to yours)"},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "export", Description: "Export every vault as JSON (admins)"},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "import", Description: "Replace every vault from a JSON export (admins)",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionAttachment, Name: "file", Description: "JSON export", Required: true},
					},
				},
			},
		},
		{
			Name:        cmdTrade,
			Description: "Offer an item from your vault for trade",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "item", Description: "Part of the item description", Required: true},
			},
		},
	}
}

// HandleCommand routes slash commands.
func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	switch data.Name {
	case cmdEvent:
		h.handleCreateEvent(s, i, data)
	case cmdEvents:
		h.handleListEvents(s, i)
	case cmdRecords:
		h.handleListRecords(s, i)
	case cmdVault:
		h.handleVault(s, i, data)
	case cmdTrade:
		h.handleTradeOffer(s, i, data)
	}
}

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

// stringOption returns the trimmed string value of an option, or "" when it was not supplied.
func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	o, ok := opts[name]
	if !ok || o == nil || o.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return strings.TrimSpace(o.StringValue())
}
