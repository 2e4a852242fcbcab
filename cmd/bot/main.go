package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"guildbot/internal/adapters/discord"
	"guildbot/internal/adapters/health"
	"guildbot/internal/config"
	"guildbot/internal/infrastructure/access"
	"guildbot/internal/infrastructure/database"
	"guildbot/internal/infrastructure/i18n"
	"guildbot/internal/infrastructure/memory"
	"guildbot/internal/infrastructure/metrics"
	"guildbot/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration invalide: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := discord.Dependencies{
		Events:     memory.NewEventRegistry(),
		Trades:     memory.NewTradeStore(),
		Translator: i18n.NewTranslator(cfg.Locale),
		Auth:       access.NewAllowList(cfg.AdminIDs, cfg.AdminRoleIDs),
		Metrics:    metrics.NewRecorder(registry),
	}
	closeStore, err := openStorage(ctx, cfg, &deps)
	if err != nil {
		log.Fatalf("❌ Erreur lors de l'initialisation de la base de données: %v", err)
	}
	defer closeStore()

	bot, err := discord.NewBot(cfg, deps)
	if err != nil {
		log.Fatalf("❌ Erreur lors de la création du bot: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := health.Serve(ctx, cfg.HealthAddr, health.NewRouter(registry)); err != nil {
			log.Printf("❌ Serveur de santé: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		bot.RunBackground(ctx)
	}()

	sup := supervisor.New("discord", cfg.RestartInitialDelay, cfg.RestartMaxDelay)
	if err := sup.Run(ctx, bot.Connect); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("❌ Arrêt du bot: %v", err)
	}
	stop()
	wg.Wait()
	log.Println("👋 Bot arrêté.")
}

// openStorage picks PostgreSQL for the vault and the archive when DATABASE_URL is set, and the
// in-memory stores otherwise. Events and trades always live in memory.
func openStorage(ctx context.Context, cfg *config.Config, deps *discord.Dependencies) (func(), error) {
	if cfg.DatabaseURL == "" {
		log.Println("ℹ️ DATABASE_URL absent: coffre et archives conservés en mémoire.")
		deps.Vault = memory.NewVaultStore()
		deps.Records = memory.NewRecordStore()
		return func() {}, nil
	}
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return nil, err
	}
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	deps.Vault = database.NewVaultRepository(pool)
	deps.Records = database.NewRecordRepository(pool)
	return pool.Close, nil
}
