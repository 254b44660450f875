package middleware

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/dongaltd/dongpay-bot/internal/ratelimit"
	"github.com/dongaltd/dongpay-bot/pkg/config"
)

// RateLimitMiddleware throttles updates per chat. Whitelisted chats bypass
// the limiter entirely.
type RateLimitMiddleware struct {
	limiter   ratelimit.Limiter
	whitelist map[int64]struct{}
	log       *slog.Logger
}

// NewRateLimitMiddleware constructs a rate-limit middleware component.
func NewRateLimitMiddleware(limiter ratelimit.Limiter, cfg config.RateLimitConfig, log *slog.Logger) *RateLimitMiddleware {
	if log == nil {
		log = slog.Default()
	}

	whitelist := make(map[int64]struct{}, len(cfg.Whitelist))
	for _, chatID := range cfg.Whitelist {
		whitelist[chatID] = struct{}{}
	}

	return &RateLimitMiddleware{
		limiter:   limiter,
		whitelist: whitelist,
		log:       log,
	}
}

// Handle returns a telebot middleware that enforces the per-chat limit.
// Limiter failures let the update through; throttling is best effort.
func (m *RateLimitMiddleware) Handle(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if m.limiter == nil || c.Chat() == nil {
			return next(c)
		}

		chatID := c.Chat().ID
		if _, ok := m.whitelist[chatID]; ok {
			return next(c)
		}

		result, err := m.limiter.Allow(context.Background(), chatID)
		if err != nil && result == nil {
			m.log.Warn("rate limiter error", slog.Int64("chat_id", chatID), slog.Any("error", err))
			return next(c)
		}

		if !result.Allowed {
			m.log.Warn("rate limit exceeded", slog.Int64("chat_id", chatID))
			return c.Send("You're sending messages too quickly. Please slow down.")
		}

		return next(c)
	}
}
