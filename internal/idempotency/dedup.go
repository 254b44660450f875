// Package idempotency suppresses duplicate Telegram update deliveries.
// Webhook retries and long-poll reconnects can hand the bot the same update
// twice; processing it twice could double-fire a payment.
package idempotency

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator reports whether an update was already handled. The first call
// for an update ID claims it; later calls see it as a duplicate.
type Deduplicator interface {
	Seen(ctx context.Context, updateID int) (bool, error)
}

// RedisDeduplicator claims update IDs with SETNX so that duplicates are
// detected across bot instances.
type RedisDeduplicator struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

var _ Deduplicator = (*RedisDeduplicator)(nil)

// NewRedisDeduplicator creates a Redis-backed deduplicator. Claims expire
// after ttl; Telegram does not retry updates older than that in practice.
func NewRedisDeduplicator(client *redis.Client, ttl time.Duration, log *slog.Logger) *RedisDeduplicator {
	if log == nil {
		log = slog.Default()
	}

	return &RedisDeduplicator{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Seen claims the update ID. It returns true when the ID was already claimed.
func (d *RedisDeduplicator) Seen(ctx context.Context, updateID int) (bool, error) {
	key := fmt.Sprintf("update:seen:%d", updateID)

	claimed, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		d.log.Error("failed to claim update id", slog.Int("update_id", updateID), slog.Any("error", err))
		return false, err
	}

	return !claimed, nil
}

// MemoryDeduplicator is the single-instance fallback.
type MemoryDeduplicator struct {
	ttl time.Duration

	mu   sync.Mutex
	seen map[int]time.Time
}

var _ Deduplicator = (*MemoryDeduplicator)(nil)

// NewMemoryDeduplicator creates an in-process deduplicator.
func NewMemoryDeduplicator(ttl time.Duration) *MemoryDeduplicator {
	return &MemoryDeduplicator{
		ttl:  ttl,
		seen: make(map[int]time.Time),
	}
}

// Seen claims the update ID, pruning expired claims as it goes.
func (d *MemoryDeduplicator) Seen(ctx context.Context, updateID int) (bool, error) {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for id, claimedAt := range d.seen {
		if now.Sub(claimedAt) > d.ttl {
			delete(d.seen, id)
		}
	}

	if _, ok := d.seen[updateID]; ok {
		return true, nil
	}

	d.seen[updateID] = now
	return false, nil
}
