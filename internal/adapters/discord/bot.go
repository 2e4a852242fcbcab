package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"guildbot/internal/application"
	"guildbot/internal/config"
	"guildbot/internal/ports/output"
)

// reconnectGrace is how long discordgo may try to resume on its own before the connection is
// considered lost and handed back to the supervisor.
const reconnectGrace = 2 * time.Minute

var errConnectionLost = errors.New("discord: connexion perdue")

// Dependencies are the output adapters the bot wires into the use cases.
type Dependencies struct {
	Events     output.EventRegistry
	Trades     output.TradeStore
	Vault      output.VaultRepository
	Records    output.RecordRepository
	Translator output.T
	Auth       output.Authorizer
	Metrics    output.Metrics
}

// Bot is the Discord adapter.
type Bot struct {
	session   *discordgo.Session
	config    *config.Config
	handler   *Handler
	reminders *application.ReminderScheduler
	trades    *application.TradeService

	mu        sync.Mutex
	lost      chan struct{}
	lostTimer *time.Timer
}

// NewBot creates a Bot and wires ports: output adapters -> application (use cases) -> handler.
func NewBot(cfg *config.Config, deps Dependencies) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la création de la session Discord: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMessageReactions

	notifier := NewNotifier(s, deps.Translator, cfg.Locale)

	reminders := application.NewReminderScheduler(deps.Events, notifier, deps.Metrics,
		cfg.ReminderOffsets, application.LatePolicy(cfg.ReminderLatePolicy))
	eventUC := application.NewEventService(deps.Events, deps.Records, notifier, notifier, deps.Auth, reminders)
	participantUC := application.NewParticipantService(deps.Events, notifier, deps.Auth, deps.Metrics)
	vaultUC := application.NewVaultService(deps.Vault)
	tradeUC := application.NewTradeService(deps.Trades, vaultUC, notifier, deps.Auth, deps.Metrics, cfg.TradeSessionTTL)

	handler := NewHandler(eventUC, participantUC, tradeUC, vaultUC, deps.Auth, notifier, deps.Translator, cfg)

	bot := &Bot{
		session:   s,
		config:    cfg,
		handler:   handler,
		reminders: reminders,
		trades:    tradeUC,
	}
	bot.setupHandlers()
	return bot, nil
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handleReactionAdd)
	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(b.handleResumed)
	b.session.AddHandler(b.handleDisconnect)
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handler.HandleCommand(s, i)
	case discordgo.InteractionModalSubmit:
		b.handler.HandleModalSubmit(s, i)
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		switch {
		case strings.HasPrefix(customID, btnJoinPrefix):
			b.handler.HandleJoin(s, i)
		case strings.HasPrefix(customID, btnWaitlistPrefix):
			b.handler.HandleJoinWaitlist(s, i)
		case strings.HasPrefix(customID, btnLeavePrefix):
			b.handler.HandleLeave(s, i)
		case strings.HasPrefix(customID, btnFinishPrefix):
			b.handler.HandleFinish(s, i)
		case strings.HasPrefix(customID, btnManagePrefix):
			b.handler.HandleManageParticipants(s, i)
		case strings.HasPrefix(customID, selectRemovePrefix):
			b.handler.HandleRemove(s, i)
		}
	}
}

func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	var selfID string
	if s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}
	roles, ok := humanReaction(selfID, r)
	if !ok {
		return
	}
	b.handler.HandleReaction(r.ChannelID, r.MessageID, r.UserID, roles, r.Emoji.Name)
}

// humanReaction filters out the bot's own seeded reactions and those of other bots,
// returning the reactor's roles otherwise.
func humanReaction(selfID string, r *discordgo.MessageReactionAdd) ([]string, bool) {
	if r.MessageReaction == nil || r.Emoji.Name == "" {
		return nil, false
	}
	if selfID != "" && r.UserID == selfID {
		return nil, false
	}
	if r.Member == nil {
		return nil, true
	}
	if r.Member.User != nil && r.Member.User.Bot {
		return nil, false
	}
	return r.Member.Roles, true
}

func (b *Bot) handleReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.clearLostTimer()
	log.Printf("✅ Connecté en tant que %s", r.User.String())
}

func (b *Bot) handleResumed(_ *discordgo.Session, _ *discordgo.Resumed) {
	b.clearLostTimer()
	log.Println("✅ Session Discord reprise.")
}

// handleDisconnect arms a timer; if discordgo has not resumed within reconnectGrace the
// connection is treated as lost.
func (b *Bot) handleDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lost == nil || b.lostTimer != nil {
		return
	}
	lost := b.lost
	b.lostTimer = time.AfterFunc(reconnectGrace, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.lost == lost {
			close(lost)
			b.lost = nil
		}
	})
	log.Println("⚠️ Session Discord déconnectée, tentative de reprise...")
}

func (b *Bot) clearLostTimer() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lostTimer != nil {
		b.lostTimer.Stop()
		b.lostTimer = nil
	}
}

// Connect opens the gateway, registers commands and blocks until ctx is cancelled (nil) or the
// connection is lost (error). It is meant to be run under supervisor.Run.
func (b *Bot) Connect(ctx context.Context) error {
	lost := make(chan struct{})
	b.mu.Lock()
	b.lost = lost
	b.mu.Unlock()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("erreur lors de l'ouverture de la session: %w", err)
	}
	defer func() {
		b.clearLostTimer()
		if err := b.session.Close(); err != nil {
			log.Printf("⚠️ Fermeture de la session Discord: %v", err)
		}
	}()

	if _, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.config.GuildID, commands()); err != nil {
		log.Printf("⚠️ Erreur lors de l'enregistrement des commandes: %v", err)
	}

	log.Println("🤖 Bot en ligne ! Appuyez sur CTRL+C pour quitter.")
	select {
	case <-ctx.Done():
		return nil
	case <-lost:
		return errConnectionLost
	}
}

// RunBackground runs the reminder loop and the periodic tasks until ctx is cancelled.
func (b *Bot) RunBackground(ctx context.Context) {
	go b.RunScheduledTasks(ctx)
	if err := b.reminders.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("❌ Boucle des rappels arrêtée: %v", err)
	}
}
