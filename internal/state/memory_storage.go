package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-process Storage implementation. It is the default
// backend for single-instance deployments and tests.
type MemoryStorage struct {
	mu            sync.RWMutex
	conversations map[int64]Conversation
}

// NewMemoryStorage constructs an empty in-memory Storage implementation.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		conversations: make(map[int64]Conversation),
	}
}

// Get returns a copy of the stored conversation or ErrNotFound when absent.
func (s *MemoryStorage) Get(ctx context.Context, chatID int64) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[chatID]
	if !ok {
		return nil, ErrNotFound
	}

	copied := conv
	return &copied, nil
}

// Put saves a copy of the conversation, stamping UpdatedAt.
func (s *MemoryStorage) Put(ctx context.Context, chatID int64, conv *Conversation) error {
	if conv == nil {
		return nil
	}

	copied := *conv
	copied.ChatID = chatID
	copied.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[chatID] = copied

	return nil
}

// Remove deletes the conversation for the chat. Removing an absent chat is a no-op.
func (s *MemoryStorage) Remove(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, chatID)

	return nil
}

// All returns copies of every stored conversation.
func (s *MemoryStorage) All(ctx context.Context) ([]*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		copied := conv
		result = append(result, &copied)
	}

	return result, nil
}
