// Package profile stores per-chat metadata that outlives individual
// conversations: display name, language preference, and notification flag.
package profile

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound indicates that no profile exists for the chat.
var ErrNotFound = errors.New("profile not found")

// Profile represents the durable metadata for one chat. Resetting or
// clearing a conversation never touches it.
type Profile struct {
	ChatID    int64     `json:"chat_id"`
	FirstName string    `json:"first_name"`
	Username  string    `json:"username"`
	Language  string    `json:"language"`
	Notify    bool      `json:"notify"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository defines persistence operations for profiles.
type Repository interface {
	FindByChatID(ctx context.Context, chatID int64) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}

// MemoryRepository is the in-process Repository used when no database is configured.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[int64]Profile
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: make(map[int64]Profile)}
}

// FindByChatID returns a copy of the stored profile or ErrNotFound.
func (r *MemoryRepository) FindByChatID(ctx context.Context, chatID int64) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[chatID]
	if !ok {
		return nil, ErrNotFound
	}

	copied := p
	return &copied, nil
}

// Upsert stores a copy of the profile.
func (r *MemoryRepository) Upsert(ctx context.Context, p *Profile) error {
	if p == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ChatID] = *p

	return nil
}
