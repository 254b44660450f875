package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Error codes for the deposit flow taxonomy.
const (
	CodeInvalidAmount    = "E100"
	CodeInvalidPhone     = "E101"
	CodeUnknownInput     = "E110"
	CodeState            = "E200"
	CodeDatabase         = "E210"
	CodeGatewayTransport = "E300"
	CodeGatewayRejected  = "E301"
)

// AppError is the application error carrying user-facing and operational metadata.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// NewInvalidAmountError reports a deposit amount that failed validation.
// The user recovers by sending another amount; the flow stays in place.
func NewInvalidAmountError(msg string) *AppError {
	return &AppError{
		Code:        CodeInvalidAmount,
		Message:     msg,
		UserMessage: msg,
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

// NewInvalidPhoneError reports a phone number that failed validation.
func NewInvalidPhoneError(msg string) *AppError {
	return &AppError{
		Code:        CodeInvalidPhone,
		Message:     msg,
		UserMessage: msg,
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

// NewUnknownInputError reports input that matches no command or active flow.
func NewUnknownInputError(msg string) *AppError {
	return &AppError{
		Code:        CodeUnknownInput,
		Message:     msg,
		UserMessage: msg,
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

// NewStateError reports a conversation state that cannot accept the requested operation.
func NewStateError(msg string) *AppError {
	return &AppError{
		Code:        CodeState,
		Message:     msg,
		UserMessage: "That action is not possible right now. Send /start to begin a deposit.",
		Severity:    SeverityMedium,
		Retryable:   false,
	}
}

// NewDatabaseError wraps a persistence failure.
func NewDatabaseError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        CodeDatabase,
		Message:     fmt.Sprintf("database error: %s", underlyingMsg),
		UserMessage: "A temporary problem occurred. Please try again later.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewGatewayTransportError wraps a network-level failure reaching the payment gateway.
func NewGatewayTransportError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        CodeGatewayTransport,
		Message:     fmt.Sprintf("payment gateway unreachable: %s", underlyingMsg),
		UserMessage: "The payment service is temporarily unavailable.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewGatewayRejectedError wraps an explicit rejection from the payment gateway.
func NewGatewayRejectedError(reason string) *AppError {
	if reason == "" {
		reason = "the payment gateway rejected the request"
	}

	return &AppError{
		Code:        CodeGatewayRejected,
		Message:     fmt.Sprintf("gateway rejected push: %s", reason),
		UserMessage: reason,
		Severity:    SeverityMedium,
		Retryable:   false,
	}
}
