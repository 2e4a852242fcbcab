// Package supervisor keeps a long-running connection alive, restarting it with exponential backoff.
package supervisor

import (
	"context"
	"log"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ConnectFunc runs until ctx is cancelled (nil) or the connection fails (non-nil).
type ConnectFunc func(ctx context.Context) error

// Supervisor restarts a ConnectFunc after each failure. The delay starts at InitialDelay and
// doubles up to MaxDelay. A run that stayed up for at least MaxDelay resets the delay.
type Supervisor struct {
	Name         string
	InitialDelay time.Duration
	MaxDelay     time.Duration

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func New(name string, initialDelay, maxDelay time.Duration) *Supervisor {
	return &Supervisor{
		Name:         name,
		InitialDelay: initialDelay,
		MaxDelay:     maxDelay,
		sleep:        sleepCtx,
		now:          time.Now,
	}
}

func (s *Supervisor) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.InitialDelay
	b.MaxInterval = s.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.Reset()
	return b
}

// Run calls connect until it returns nil or ctx is cancelled. It returns ctx.Err() on cancellation.
func (s *Supervisor) Run(ctx context.Context, connect ConnectFunc) error {
	b := s.newBackOff()
	attempt := 0
	for {
		attempt++
		started := s.now()
		err := connect(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}
		if s.now().Sub(started) >= s.MaxDelay {
			b.Reset()
			attempt = 1
		}
		delay := b.NextBackOff()
		if delay == backoff.Stop {
			delay = s.MaxDelay
		}
		log.Printf("🔁 %s: échec (tentative %d): %v. Nouvelle tentative dans %s", s.Name, attempt, err, delay)
		if err := s.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
