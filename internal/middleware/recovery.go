// Package middleware holds the telebot and HTTP middlewares shared by the bot.
package middleware

import (
	"log/slog"
	"runtime/debug"

	telebot "gopkg.in/telebot.v3"
)

// Recovery catches panics in downstream handlers, logs them, and notifies the
// user instead of crashing the update loop.
func Recovery(log *slog.Logger) telebot.MiddlewareFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
					)

					if c != nil {
						if sendErr := c.Send("Something went wrong. Please try again later."); sendErr != nil {
							log.Error("failed to notify user about panic", slog.Any("error", sendErr))
						}
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}
