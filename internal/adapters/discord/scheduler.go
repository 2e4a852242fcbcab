package discord

import (
	"context"
	"log"
	"time"
)

// RunScheduledTasks runs periodic tasks every TRADE_SWEEP_INTERVAL: expiry of idle trade sessions.
func (b *Bot) RunScheduledTasks(ctx context.Context) {
	ticker := time.NewTicker(b.config.TradeSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := b.trades.ExpireIdle(ctx, now)
			if err != nil {
				log.Printf("❌ Expiration des échanges inactifs: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("🤝 %d échange(s) inactif(s) expiré(s)", n)
			}
		}
	}
}
