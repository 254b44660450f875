// Package keyboard builds the reply markups shown during the deposit flow.
package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/dongaltd/dongpay-bot/internal/i18n"
)

// Confirmation builds the localized Confirm/Cancel keyboard shown while the
// bot waits for the user to approve the payment summary.
func Confirmation(t i18n.Translator) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}

	lookup := func(key string) string {
		if t == nil {
			return key
		}
		return t.T(key)
	}

	confirmBtn := markup.Text(lookup("keyboard.confirm"))
	cancelBtn := markup.Text(lookup("keyboard.cancel"))

	markup.Reply(markup.Row(confirmBtn, cancelBtn))

	return markup
}

// Remove clears any custom reply keyboard from the chat.
func Remove() *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{RemoveKeyboard: true}
}
