package state

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner removes conversations that have been idle past their TTL, so a user
// who walked away mid-flow starts clean the next time they write.
type Cleaner struct {
	machine  *Machine
	log      *slog.Logger
	ttl      time.Duration
	interval time.Duration
}

// NewCleaner constructs a Cleaner instance.
func NewCleaner(machine *Machine, log *slog.Logger, ttl, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		machine:  machine,
		log:      log,
		ttl:      ttl,
		interval: interval,
	}
}

// Run starts the cleanup loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.machine == nil || c.ttl <= 0 || c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("conversation cleaner stopped")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *Cleaner) cleanup(ctx context.Context) {
	conversations, err := c.machine.All(ctx)
	if err != nil {
		c.log.Error("conversation cleaner failed to list conversations", slog.Any("error", err))
		return
	}

	for _, conv := range conversations {
		if conv == nil || time.Since(conv.UpdatedAt) <= c.ttl {
			continue
		}

		if err := c.machine.Clear(ctx, conv.ChatID); err != nil {
			c.log.Error("conversation cleaner failed to clear conversation",
				slog.Int64("chat_id", conv.ChatID), slog.Any("error", err))
			continue
		}

		c.log.Info("stale conversation cleared",
			slog.Int64("chat_id", conv.ChatID), slog.String("phase", string(conv.Phase)))
	}
}
