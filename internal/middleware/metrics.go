package middleware

import (
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/dongaltd/dongpay-bot/pkg/metrics"
)

// Metrics measures execution time and status for update handlers.
func Metrics(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordUpdate(updateKind(c), status, time.Since(start))

		return err
	}
}

// updateKind buckets updates by command so that free-form text (amounts,
// phone numbers) never becomes a metric label.
func updateKind(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	text := c.Text()
	if strings.HasPrefix(text, "/") {
		fields := strings.Fields(text)
		if len(fields) > 0 {
			cmd := fields[0]
			if at := strings.IndexByte(cmd, '@'); at > 0 {
				cmd = cmd[:at]
			}
			return strings.ToLower(cmd)
		}
	}

	return "text"
}
