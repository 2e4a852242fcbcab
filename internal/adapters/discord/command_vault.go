package discord

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"guildbot/internal/domain"
	pkgdiscord "guildbot/pkg/discord"
)

const (
	importMaxBytes = 1 << 20
	importTimeout  = 30 * time.Second
)

func (h *Handler) handleVault(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	opts := optionMap(sub.Options)
	ctx := context.Background()
	userID := interactionUserID(i)

	switch sub.Name {
	case "add":
		item := stringOption(opts, "item")
		if err := h.vaultUseCase.AddItem(ctx, userID, item); err != nil {
			respondEphemeral(s, i.Interaction, h.translateErr(i, err))
			return
		}
		respondEphemeral(s, i.Interaction, h.translate(i, "success.vault_added", map[string]any{"Item": item}))
	case "remove":
		item := stringOption(opts, "item")
		if err := h.vaultUseCase.RemoveItem(ctx, userID, item); err != nil {
			respondEphemeral(s, i.Interaction, h.translateErr(i, err))
			return
		}
		respondEphemeral(s, i.Interaction, h.translate(i, "success.vault_removed", map[string]any{"Item": item}))
	case "list":
		owner := userID
		if o, ok := opts["user"]; ok && o.Type == discordgo.ApplicationCommandOptionUser {
			owner = o.UserValue(nil).ID
		}
		h.respondVaultList(s, i, owner)
	case "export":
		h.handleVaultExport(s, i)
	case "import":
		h.handleVaultImport(s, i, data, opts)
	}
}

func (h *Handler) respondVaultList(s *discordgo.Session, i *discordgo.InteractionCreate, owner string) {
	items, err := h.vaultUseCase.ListItems(context.Background(), owner)
	if err != nil {
		log.Printf("❌ Lecture du coffre de %s: %v", owner, err)
		respondEphemeral(s, i.Interaction, h.translateErr(i, err))
		return
	}
	if len(items) == 0 {
		respondEphemeral(s, i.Interaction, h.translate(i, "info.vault_empty", map[string]any{"User": pkgdiscord.Mention(owner)}))
		return
	}
	var b strings.Builder
	b.WriteString(h.translate(i, "info.vault_header", map[string]any{"User": pkgdiscord.Mention(owner), "Count": len(items)}))
	for n, item := range items {
		fmt.Fprintf(&b, "\n%d. %s", n+1, item)
	}
	respondEphemeral(s, i.Interaction, b.String())
}

func (h *Handler) handleVaultExport(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.isAdmin(i) {
		respondEphemeral(s, i.Interaction, h.translateErr(i, domain.ErrUnauthorized))
		return
	}
	payload, err := h.vaultUseCase.Export(context.Background())
	if err != nil {
		log.Printf("❌ Export du coffre: %v", err)
		respondEphemeral(s, i.Interaction, h.translateErr(i, err))
		return
	}
	name := fmt.Sprintf("vault-%s.json", time.Now().UTC().Format("20060102-150405"))
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: h.translate(i, "success.vault_exported", nil),
			Flags:   discordgo.MessageFlagsEphemeral,
			Files:   []*discordgo.File{{Name: name, ContentType: "application/json", Reader: bytes.NewReader(payload)}},
		},
	}); err != nil {
		log.Printf("❌ Envoi de l'export du coffre: %v", err)
	}
}

// handleVaultImport downloads the attached export and replaces every vault with it.
func (h *Handler) handleVaultImport(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	if !h.isAdmin(i) {
		respondEphemeral(s, i.Interaction, h.translateErr(i, domain.ErrUnauthorized))
		return
	}
	o, ok := opts["file"]
	if !ok || data.Resolved == nil {
		respondEphemeral(s, i.Interaction, h.translateErr(i, domain.ErrMalformedImport))
		return
	}
	attachmentID, _ := o.Value.(string)
	attachment, ok := data.Resolved.Attachments[attachmentID]
	if !ok || attachment == nil {
		respondEphemeral(s, i.Interaction, h.translateErr(i, domain.ErrMalformedImport))
		return
	}
	if attachment.Size > importMaxBytes {
		respondEphemeral(s, i.Interaction, h.translateErr(i, domain.ErrMalformedImport))
		return
	}

	deferEphemeral(s, i.Interaction)
	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()

	payload, err := download(ctx, s.Client, attachment.URL)
	if err != nil {
		log.Printf("❌ Téléchargement de l'import du coffre: %v", err)
		editResponse(s, i.Interaction, h.translate(i, "errors.generic", nil))
		return
	}
	users, err := h.vaultUseCase.Import(ctx, payload)
	if err != nil {
		if domain.Code(err) == "" {
			log.Printf("❌ Import du coffre: %v", err)
		}
		editResponse(s, i.Interaction, h.translateErr(i, err))
		return
	}
	log.Printf("📦 Coffre importé par %s: %d utilisateurs", interactionUserID(i), users)
	editResponse(s, i.Interaction, h.translate(i, "success.vault_imported", map[string]any{"Count": users}))
}

func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, importMaxBytes+1))
}

func (h *Handler) handleTradeOffer(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	query := stringOption(optionMap(data.Options), "item")
	deferEphemeral(s, i.Interaction)
	offer, err := h.tradeUseCase.OfferTrade(context.Background(), interactionUserID(i), i.ChannelID, query)
	if err != nil {
		if domain.Code(err) == "" {
			log.Printf("❌ Publication de l'offre (%q): %v", query, err)
		}
		editResponse(s, i.Interaction, h.translateErr(i, err))
		return
	}
	editResponse(s, i.Interaction, h.translate(i, "success.trade_offered", map[string]any{"Item": offer.Item}))
}
