// Package flow drives the deposit conversation: one dispatch per inbound
// message, with every transition keyed off the stored phase.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dongaltd/dongpay-bot/internal/deposit"
	"github.com/dongaltd/dongpay-bot/internal/i18n"
	"github.com/dongaltd/dongpay-bot/internal/ledger"
	"github.com/dongaltd/dongpay-bot/internal/payment"
	"github.com/dongaltd/dongpay-bot/internal/profile"
	"github.com/dongaltd/dongpay-bot/internal/state"
	"github.com/dongaltd/dongpay-bot/pkg/metrics"
)

// Bot commands understood by the engine.
const (
	EntryCommand  = "/start"
	CancelCommand = "/cancel"
)

const confirmWord = "confirm"

// Inbound is one message event: conversation identity plus text, with the
// optional sender details Telegram attaches to first contact.
type Inbound struct {
	ChatID       int64
	Text         string
	FirstName    string
	Username     string
	LanguageCode string
}

// Result carries the replies to deliver and the phase the conversation
// ended the turn in, so the transport layer can shape its presentation
// (e.g. show or hide the confirmation keyboard).
type Result struct {
	Replies []string
	Phase   state.Phase
}

// Engine advances conversation state for each inbound message. All business
// rules live here; the transport-facing dispatcher stays logic-free.
type Engine struct {
	machine  *state.Machine
	amounts  deposit.AmountRule
	phones   deposit.PhoneRule
	payments payment.Initiator
	profiles *profile.Service
	ledger   ledger.Recorder
	catalog  *i18n.Manager
	log      *slog.Logger
}

// NewEngine wires the engine with its collaborators. recorder may be a
// ledger.Noop when no database is configured.
func NewEngine(
	machine *state.Machine,
	amounts deposit.AmountRule,
	phones deposit.PhoneRule,
	payments payment.Initiator,
	profiles *profile.Service,
	recorder ledger.Recorder,
	catalog *i18n.Manager,
	log *slog.Logger,
) *Engine {
	if log == nil {
		log = slog.Default()
	}
	if recorder == nil {
		recorder = ledger.Noop{}
	}

	return &Engine{
		machine:  machine,
		amounts:  amounts,
		phones:   phones,
		payments: payments,
		profiles: profiles,
		ledger:   recorder,
		catalog:  catalog,
		log:      log,
	}
}

// Handle processes one inbound message and returns the replies to send.
// Validation failures and gateway rejections are resolved into replies,
// never into errors; only infrastructure faults surface as errors.
func (e *Engine) Handle(ctx context.Context, msg Inbound) (*Result, error) {
	text := strings.TrimSpace(msg.Text)

	switch command(text) {
	case EntryCommand:
		return e.handleStart(ctx, msg)
	case CancelCommand:
		return e.handleCancel(ctx, msg)
	}

	return e.handleTurn(ctx, msg, text)
}

// handleStart resets the conversation to PhaseAwaitingAmount, discarding any
// captured amount or phone, and greets the user by name when known.
func (e *Engine) handleStart(ctx context.Context, msg Inbound) (*Result, error) {
	prof, err := e.profiles.GetOrCreate(ctx, msg.ChatID, msg.FirstName, msg.Username, baseLang(msg.LanguageCode))
	if err != nil {
		e.log.Warn("failed to load profile on entry", slog.Int64("chat_id", msg.ChatID), slog.Any("error", err))
	}

	tr := e.translator(prof, msg)

	conv, err := e.machine.Update(ctx, msg.ChatID, func(current *state.Conversation) (*state.Conversation, error) {
		return &state.Conversation{ChatID: msg.ChatID, Phase: state.PhaseAwaitingAmount}, nil
	})
	if err != nil {
		return e.resolveUpdateError(msg.ChatID, tr, err)
	}

	greeting := tr.T("deposit.welcome_anon")
	if prof != nil && prof.FirstName != "" {
		greeting = fmt.Sprintf(tr.T("deposit.welcome"), prof.FirstName)
	}

	return &Result{Replies: []string{greeting}, Phase: conv.Phase}, nil
}

// handleCancel removes any in-flight conversation. Cancelling when nothing
// is in flight still acknowledges, matching the transport's /cancel row.
func (e *Engine) handleCancel(ctx context.Context, msg Inbound) (*Result, error) {
	tr := e.translatorFor(ctx, msg)

	_, err := e.machine.Update(ctx, msg.ChatID, func(current *state.Conversation) (*state.Conversation, error) {
		return &state.Conversation{ChatID: msg.ChatID, Phase: state.PhaseCancelled}, nil
	})
	if err != nil {
		return e.resolveUpdateError(msg.ChatID, tr, err)
	}

	return &Result{Replies: []string{tr.T("deposit.cancelled")}, Phase: state.PhaseCancelled}, nil
}

// handleTurn advances an existing conversation by one step. The stored phase
// gates interpretation: digits sent while awaiting a phone number are judged
// as a phone number, never as an amount.
func (e *Engine) handleTurn(ctx context.Context, msg Inbound, text string) (*Result, error) {
	tr := e.translatorFor(ctx, msg)

	var replies []string
	resultPhase := state.PhaseIdle

	_, err := e.machine.Update(ctx, msg.ChatID, func(current *state.Conversation) (*state.Conversation, error) {
		if current == nil {
			replies = append(replies, tr.T("deposit.unknown"))
			return nil, nil
		}

		next := *current
		resultPhase = current.Phase

		switch current.Phase {
		case state.PhaseAwaitingAmount:
			amount, err := e.amounts.ValidateAmount(text)
			if err != nil {
				replies = append(replies, fmt.Sprintf(tr.T("deposit.min_amount"), e.amounts.Min))
				return &next, nil
			}

			next.Amount = amount
			next.Phase = state.PhaseAwaitingPhone
			resultPhase = next.Phase
			replies = append(replies, fmt.Sprintf(tr.T("deposit.ask_phone"), amount))
			return &next, nil

		case state.PhaseAwaitingPhone:
			phone, err := e.phones.ValidatePhone(text)
			if err != nil {
				// Stay re-armed for another phone attempt; the amount is kept.
				replies = append(replies, fmt.Sprintf(tr.T("deposit.invalid_phone"), e.phones.Length, e.phones.Prefix))
				return &next, nil
			}

			next.Phone = phone
			next.Phase = state.PhaseAwaitingConfirmation
			resultPhase = next.Phase
			replies = append(replies, fmt.Sprintf(tr.T("deposit.summary"), next.Amount, next.Phone))
			return &next, nil

		case state.PhaseAwaitingConfirmation:
			if !confirms(text, tr) {
				next.Phase = state.PhaseCancelled
				resultPhase = next.Phase
				replies = append(replies, tr.T("deposit.cancelled"))
				return &next, nil
			}

			outcome := e.initiate(ctx, current)
			if outcome.Initiated {
				next.Phase = state.PhaseCompleted
				replies = append(replies, tr.T("deposit.success"))
			} else {
				next.Phase = state.PhaseCancelled
				replies = append(replies, fmt.Sprintf(tr.T("deposit.failed"), outcome.Reason))
			}
			resultPhase = next.Phase
			return &next, nil

		default:
			// Terminal or unknown phases never resume; point back to the entry command.
			replies = append(replies, tr.T("deposit.unknown"))
			return &next, nil
		}
	})
	if err != nil {
		return e.resolveUpdateError(msg.ChatID, tr, err)
	}

	return &Result{Replies: replies, Phase: resultPhase}, nil
}

// initiate performs the single gateway call and records the attempt. The
// call runs inside the conversation's lock on purpose: a second "confirm"
// for the same chat cannot overtake the first, while other chats proceed.
func (e *Engine) initiate(ctx context.Context, conv *state.Conversation) payment.Outcome {
	start := time.Now()
	outcome := e.payments.Initiate(ctx, payment.Request{
		Amount: conv.Amount,
		MSISDN: conv.Phone,
	})

	status := ledger.StatusInitiated
	if !outcome.Initiated {
		status = ledger.StatusFailed
	}
	metrics.RecordPayment(status, time.Since(start))

	if err := e.ledger.Record(ctx, ledger.Entry{
		ChatID: conv.ChatID,
		Amount: conv.Amount,
		MSISDN: conv.Phone,
		Status: status,
		Reason: outcome.Reason,
	}); err != nil {
		e.log.Error("failed to record deposit attempt", slog.Int64("chat_id", conv.ChatID), slog.Any("error", err))
	}

	return outcome
}

func (e *Engine) resolveUpdateError(chatID int64, tr i18n.Translator, err error) (*Result, error) {
	if errors.Is(err, state.ErrLocked) {
		e.log.Warn("conversation busy, asking user to retry", slog.Int64("chat_id", chatID))
		return &Result{Replies: []string{tr.T("deposit.busy")}}, nil
	}

	return nil, err
}

// translatorFor resolves the chat's language preference, falling back to the
// language code Telegram attached to the message.
func (e *Engine) translatorFor(ctx context.Context, msg Inbound) i18n.Translator {
	lang := e.profiles.Language(ctx, msg.ChatID)
	if lang == "" {
		lang = msg.LanguageCode
	}

	return e.catalog.Translator(lang)
}

func (e *Engine) translator(prof *profile.Profile, msg Inbound) i18n.Translator {
	lang := msg.LanguageCode
	if prof != nil && prof.Language != "" {
		lang = prof.Language
	}

	return e.catalog.Translator(lang)
}

// confirms reports whether the text approves the pending summary: the plain
// confirm word or the localized Confirm button label the keyboard sends.
// Everything else, including the localized Cancel button label, declines.
func confirms(text string, tr i18n.Translator) bool {
	if strings.EqualFold(text, confirmWord) {
		return true
	}

	return text == tr.T("keyboard.confirm")
}

// command extracts the leading bot command from the text, tolerating the
// @botname suffix and trailing arguments Telegram clients may send.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}

	cmd := fields[0]
	if at := strings.IndexByte(cmd, '@'); at > 0 {
		cmd = cmd[:at]
	}

	return strings.ToLower(cmd)
}

func baseLang(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if idx := strings.IndexByte(code, '-'); idx > 0 {
		code = code[:idx]
	}
	return code
}
