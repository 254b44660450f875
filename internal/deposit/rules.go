// Package deposit contains the pure validation rules for the deposit flow.
package deposit

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/dongaltd/dongpay-bot/internal/errors"
)

// AmountRule validates deposit amounts against a minimum threshold.
type AmountRule struct {
	Min int
}

// PhoneRule validates phone numbers against a national numbering pattern.
// Length and prefix are policies, not constants, so other numbering plans
// can be configured without touching the flow.
type PhoneRule struct {
	Length int
	Prefix string
}

// ValidateAmount parses text as a whole number of shillings and enforces the minimum.
// The input must be decimal digits only after trimming; no sign, no decimal point.
func (r AmountRule) ValidateAmount(text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !isDigits(trimmed) {
		return 0, apperrors.NewInvalidAmountError("Please enter the amount as a whole number, e.g. 2000.")
	}

	amount, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, apperrors.NewInvalidAmountError("Please enter the amount as a whole number, e.g. 2000.")
	}

	if amount < r.Min {
		return 0, apperrors.NewInvalidAmountError(
			fmt.Sprintf("The minimum deposit amount is %d. Please enter a valid amount.", r.Min),
		)
	}

	return amount, nil
}

// ValidatePhone checks the trimmed input against the configured numbering pattern.
func (r PhoneRule) ValidatePhone(text string) (string, error) {
	phone := strings.TrimSpace(text)

	if len(phone) != r.Length || !isDigits(phone) || !strings.HasPrefix(phone, r.Prefix) {
		return "", apperrors.NewInvalidPhoneError(
			fmt.Sprintf("Please enter a valid %d-digit phone number starting with %s.", r.Length, r.Prefix),
		)
	}

	return phone, nil
}

func isDigits(s string) bool {
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
