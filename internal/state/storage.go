// Package state manages per-chat conversation state for the deposit flow.
package state

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates that no conversation exists for the chat.
	ErrNotFound = errors.New("conversation not found")
	// ErrInvalidTransition indicates that a requested phase change is not allowed.
	ErrInvalidTransition = errors.New("invalid phase transition")
	// ErrLocked indicates that a concurrent operation already holds the lock.
	ErrLocked = errors.New("conversation is locked, try again later")
)

// Storage defines the persistence contract for conversation state.
type Storage interface {
	// Get returns the current conversation for the chat, or ErrNotFound.
	Get(ctx context.Context, chatID int64) (*Conversation, error)
	// Put saves the provided conversation for the chat.
	Put(ctx context.Context, chatID int64, conv *Conversation) error
	// Remove deletes the conversation for the chat.
	Remove(ctx context.Context, chatID int64) error
	// All returns every stored conversation.
	All(ctx context.Context) ([]*Conversation, error)
}
