// Package bot owns the Telegram transport: telebot setup, middleware chain,
// and handler registration.
package bot

import (
	"fmt"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/dongaltd/dongpay-bot/internal/errors"
	"github.com/dongaltd/dongpay-bot/internal/flow"
	"github.com/dongaltd/dongpay-bot/internal/i18n"
	"github.com/dongaltd/dongpay-bot/internal/idempotency"
	"github.com/dongaltd/dongpay-bot/internal/middleware"
	"github.com/dongaltd/dongpay-bot/pkg/config"
)

// TestCommand answers with a fixed acknowledgement, used to verify the bot
// is alive without touching conversation state.
const TestCommand = "/test"

// Bot wraps telebot.Bot with the application dependencies needed to handle
// updates.
type Bot struct {
	telebot    *telebot.Bot
	dispatcher *Dispatcher
	catalog    *i18n.Manager
	log        *slog.Logger
}

// New builds a Telegram bot instance configured per the application settings.
func New(
	cfg config.Config,
	log *slog.Logger,
	engine *flow.Engine,
	catalog *i18n.Manager,
	rateLimitMw *middleware.RateLimitMiddleware,
	dedup idempotency.Deduplicator,
) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	settings := telebot.Settings{
		Token: cfg.Bot.Token,
	}

	if cfg.Bot.Mode == "webhook" {
		// The webhook gets its own listener; cfg.Server.Port belongs to the
		// health/metrics server.
		settings.Poller = &telebot.Webhook{
			Listen: cfg.Bot.Listen,
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: cfg.Bot.WebhookURL,
			},
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)
	dispatcher := NewDispatcher(engine, catalog, errHandler, log)

	b := &Bot{
		telebot:    tb,
		dispatcher: dispatcher,
		catalog:    catalog,
		log:        log,
	}

	tb.Use(middleware.Recovery(log))
	if dedup != nil {
		tb.Use(middleware.Dedup(dedup, log))
	}
	if rateLimitMw != nil {
		tb.Use(rateLimitMw.Handle)
	}
	tb.Use(middleware.Logging(log))
	tb.Use(middleware.Metrics)

	b.registerHandlers()

	return b, nil
}

func (b *Bot) registerHandlers() {
	b.telebot.Handle(flow.EntryCommand, b.dispatcher.HandleText)
	b.telebot.Handle(flow.CancelCommand, b.dispatcher.HandleText)
	b.telebot.Handle(TestCommand, b.handleTest)
	b.telebot.Handle(telebot.OnText, b.dispatcher.HandleText)
	b.telebot.Handle(telebot.OnContact, b.handleContact)
}

// handleTest acknowledges without touching conversation state.
func (b *Bot) handleTest(c telebot.Context) error {
	lang := ""
	if sender := c.Sender(); sender != nil {
		lang = sender.LanguageCode
	}

	return c.Send(b.catalog.Translator(lang).T("test.ack"))
}

// handleContact feeds a shared contact's number into the flow as if it had
// been typed, so users can tap their own contact card instead.
func (b *Bot) handleContact(c telebot.Context) error {
	contact := c.Message().Contact
	if contact == nil {
		return nil
	}

	return b.dispatcher.HandleRaw(c, localizeMSISDN(contact.PhoneNumber))
}

// localizeMSISDN rewrites an international Kenyan number to the local form
// the phone rule validates. Other shapes pass through untouched.
func localizeMSISDN(number string) string {
	number = strings.ReplaceAll(strings.TrimSpace(number), " ", "")
	number = strings.TrimPrefix(number, "+")

	if strings.HasPrefix(number, "254") && len(number) > 3 {
		return "0" + number[3:]
	}

	return number
}

// Start runs the Telegram bot event loop.
func (b *Bot) Start() {
	b.log.Info("starting telegram bot", slog.String("username", b.telebot.Me.Username))
	b.telebot.Start()
}

// Stop gracefully stops the Telegram bot.
func (b *Bot) Stop() {
	b.log.Info("stopping telegram bot")
	b.telebot.Stop()
}

// Telebot exposes the underlying instance for integrations such as health
// checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}
