// Package payment initiates mobile-money push requests against the TinPesa gateway.
package payment

import "context"

// Request carries everything needed for one STK push. Amount and MSISDN are
// expected to be validated upstream; the account and username identify the
// merchant and come from configuration.
type Request struct {
	Amount        int    `json:"amount"`
	MSISDN        string `json:"msisdn"`
	AccountNumber string `json:"account_no"`
	Username      string `json:"username"`
}

// Outcome is the tagged result of an initiation attempt: either the gateway
// accepted the push, or it failed with a best-effort reason. It is never a
// settlement result; the push only prompts the payer for their PIN.
type Outcome struct {
	Initiated bool
	Reason    string
}

// Initiated returns a successful outcome.
func Initiated() Outcome {
	return Outcome{Initiated: true}
}

// Failed returns an unsuccessful outcome with the given reason.
func Failed(reason string) Outcome {
	if reason == "" {
		reason = "Failed to initiate STK Push."
	}
	return Outcome{Initiated: false, Reason: reason}
}

// Initiator sends a push-payment request and interprets the gateway response.
// Implementations must never panic or leak errors: every failure mode
// resolves to Failed with a reason string.
type Initiator interface {
	Initiate(ctx context.Context, req Request) Outcome
}
