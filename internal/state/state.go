package state

import "time"

// Phase represents a conversation's position in the deposit flow.
type Phase string

const (
	// PhaseIdle indicates that the bot is waiting for the entry command.
	PhaseIdle Phase = "idle"
	// PhaseAwaitingAmount indicates that the user is entering the deposit amount.
	PhaseAwaitingAmount Phase = "awaiting_amount"
	// PhaseAwaitingPhone indicates that the user is entering the payout phone number.
	PhaseAwaitingPhone Phase = "awaiting_phone"
	// PhaseAwaitingConfirmation indicates that the user is confirming the deposit.
	PhaseAwaitingConfirmation Phase = "awaiting_confirmation"
	// PhaseCompleted indicates the push payment was initiated. Terminal.
	PhaseCompleted Phase = "completed"
	// PhaseCancelled indicates the conversation was abandoned or failed. Terminal.
	PhaseCancelled Phase = "cancelled"
)

// Terminal reports whether the phase ends the conversation. A terminal
// conversation must be cleared before further input is accepted.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseCancelled
}

// Conversation captures the dialogue state for one chat.
// Amount is meaningful once the phase has advanced past PhaseAwaitingAmount,
// Phone once past PhaseAwaitingPhone.
type Conversation struct {
	ChatID    int64     `json:"chat_id"`
	Phase     Phase     `json:"phase"`
	Amount    int       `json:"amount,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
