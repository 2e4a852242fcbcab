package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"guildbot/internal/config"
	"guildbot/internal/ports/input"
	"guildbot/internal/ports/output"
	pkgdiscord "guildbot/pkg/discord"
)

// Handler handles Discord interactions and reactions using use cases.
type Handler struct {
	eventUseCase       input.EventUseCase
	participantUseCase input.ParticipantUseCase
	tradeUseCase       input.TradeUseCase
	vaultUseCase       input.VaultUseCase
	auth               output.Authorizer
	directory          output.DisplayDirectory
	translator         output.T
	config             *config.Config
}

func NewHandler(
	eventUseCase input.EventUseCase,
	participantUseCase input.ParticipantUseCase,
	tradeUseCase input.TradeUseCase,
	vaultUseCase input.VaultUseCase,
	auth output.Authorizer,
	directory output.DisplayDirectory,
	translator output.T,
	cfg *config.Config,
) *Handler {
	return &Handler{
		eventUseCase:       eventUseCase,
		participantUseCase: participantUseCase,
		tradeUseCase:       tradeUseCase,
		vaultUseCase:       vaultUseCase,
		auth:               auth,
		directory:          directory,
		translator:         translator,
		config:             cfg,
	}
}

// translate renders key in the locale of the user behind the interaction.
func (h *Handler) translate(i *discordgo.InteractionCreate, key string, data map[string]any) string {
	locale := ""
	if i != nil && i.Locale != "" {
		locale = string(i.Locale)
	}
	return h.translator.T(locale, key, data)
}

// translateErr renders the user-facing message of err.
func (h *Handler) translateErr(i *discordgo.InteractionCreate, err error) string {
	return h.translate(i, pkgdiscord.ErrorKey(err), nil)
}

func (h *Handler) isAdmin(i *discordgo.InteractionCreate) bool {
	return h.auth.IsAdmin(interactionUserID(i), interactionRoles(i))
}

// customIDSuffix returns what follows prefix in a component or modal custom ID.
func customIDSuffix(customID, prefix string) (string, bool) {
	id, ok := strings.CutPrefix(customID, prefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
