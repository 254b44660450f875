// Package ratelimit throttles inbound updates per chat with a sliding window.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Result captures the outcome of a rate-limit evaluation.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether the chat may send another update right now.
type Limiter interface {
	Allow(ctx context.Context, chatID int64) (*Result, error)
}

// ErrLimitExceeded indicates the rate limit has been reached for the chat.
var ErrLimitExceeded = errors.New("rate limit exceeded")
