package bot

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/dongaltd/dongpay-bot/internal/bot/keyboard"
	apperrors "github.com/dongaltd/dongpay-bot/internal/errors"
	"github.com/dongaltd/dongpay-bot/internal/flow"
	"github.com/dongaltd/dongpay-bot/internal/i18n"
	"github.com/dongaltd/dongpay-bot/internal/state"
	"github.com/dongaltd/dongpay-bot/pkg/logger"
)

// Dispatcher translates telebot updates into engine turns and presents the
// results. All conversation logic stays in the engine; the dispatcher only
// shapes delivery, such as which reply keyboard to attach.
type Dispatcher struct {
	engine     *flow.Engine
	catalog    *i18n.Manager
	errHandler *apperrors.Handler
	log        *slog.Logger
}

// NewDispatcher builds a Dispatcher around the conversation engine.
func NewDispatcher(engine *flow.Engine, catalog *i18n.Manager, errHandler *apperrors.Handler, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		engine:     engine,
		catalog:    catalog,
		errHandler: errHandler,
		log:        log,
	}
}

// HandleText runs one engine turn for the inbound message and sends the
// replies back to the chat.
func (d *Dispatcher) HandleText(c telebot.Context) error {
	return d.HandleRaw(c, c.Text())
}

// HandleRaw runs one engine turn with text that may differ from the message
// body, such as a shared contact's phone number.
func (d *Dispatcher) HandleRaw(c telebot.Context, text string) error {
	chat := c.Chat()
	if chat == nil {
		d.log.Warn("cannot dispatch without chat information")
		return nil
	}

	msg := flow.Inbound{
		ChatID: chat.ID,
		Text:   text,
	}
	if sender := c.Sender(); sender != nil {
		msg.FirstName = sender.FirstName
		msg.Username = sender.Username
		msg.LanguageCode = sender.LanguageCode
	}

	ctx := logger.WithCorrelationID(context.Background(), "")

	result, err := d.engine.Handle(ctx, msg)
	if err != nil {
		userMsg := "Something went wrong. Please try again later."
		if d.errHandler != nil {
			if resolved, _ := d.errHandler.Handle(ctx, err); resolved != "" {
				userMsg = resolved
			}
		}
		return c.Send(userMsg, keyboard.Remove())
	}

	markup := d.markupFor(result.Phase, msg.LanguageCode)

	for i, reply := range result.Replies {
		if i == len(result.Replies)-1 && markup != nil {
			if err := c.Send(reply, markup); err != nil {
				return err
			}
			continue
		}

		if err := c.Send(reply); err != nil {
			return err
		}
	}

	return nil
}

// markupFor attaches the Confirm/Cancel keyboard while a summary awaits
// approval and clears it once the conversation leaves that phase.
func (d *Dispatcher) markupFor(phase state.Phase, lang string) *telebot.ReplyMarkup {
	switch phase {
	case state.PhaseAwaitingConfirmation:
		return keyboard.Confirmation(d.catalog.Translator(lang))
	case state.PhaseCompleted, state.PhaseCancelled:
		return keyboard.Remove()
	default:
		return nil
	}
}
