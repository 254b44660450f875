package middleware

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/dongaltd/dongpay-bot/internal/idempotency"
)

// Dedup drops updates that were already handled. Telegram redelivers updates
// on webhook retries; handling one twice could double-fire a payment.
func Dedup(dedup idempotency.Deduplicator, log *slog.Logger) telebot.MiddlewareFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		if dedup == nil {
			return next
		}

		return func(c telebot.Context) error {
			updateID := c.Update().ID
			if updateID == 0 {
				return next(c)
			}

			seen, err := dedup.Seen(context.Background(), updateID)
			if err != nil {
				// Dedup storage failure must not drop legitimate updates.
				return next(c)
			}

			if seen {
				log.Info("dropping duplicate update", slog.Int("update_id", updateID))
				return nil
			}

			return next(c)
		}
	}
}
