package profile

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const cacheTTL = 10 * time.Minute

// Service provides business operations over profiles, with a read-through cache.
type Service struct {
	repo  Repository
	cache *Cache
	log   *slog.Logger
}

// NewService constructs a new Service instance. cache may be nil.
func NewService(repo Repository, cache *Cache, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{repo: repo, cache: cache, log: log}
}

// GetOrCreate fetches the profile for a chat, creating one from the sender
// details when missing and refreshing the display name when it changed.
func (s *Service) GetOrCreate(ctx context.Context, chatID int64, firstName, username, language string) (*Profile, error) {
	if cached, err := s.cache.Get(ctx, chatID); err == nil && cached != nil {
		return cached, nil
	}

	existing, err := s.repo.FindByChatID(ctx, chatID)
	switch {
	case err == nil:
		if firstName != "" && existing.FirstName != firstName {
			existing.FirstName = firstName
			if upErr := s.repo.Upsert(ctx, existing); upErr != nil {
				s.log.Warn("failed to refresh profile name", slog.Int64("chat_id", chatID), slog.Any("error", upErr))
			}
			if cErr := s.cache.Invalidate(ctx, chatID); cErr != nil {
				s.log.Warn("failed to invalidate profile cache", slog.Int64("chat_id", chatID), slog.Any("error", cErr))
			}
		}
		s.cacheProfile(ctx, existing)
		return existing, nil

	case errors.Is(err, ErrNotFound):
		created := &Profile{
			ChatID:    chatID,
			FirstName: firstName,
			Username:  username,
			Language:  language,
			Notify:    true,
			CreatedAt: time.Now().UTC(),
		}
		if upErr := s.repo.Upsert(ctx, created); upErr != nil {
			return nil, upErr
		}
		s.cacheProfile(ctx, created)
		return created, nil

	default:
		return nil, err
	}
}

// Language returns the stored language preference for the chat, or empty.
func (s *Service) Language(ctx context.Context, chatID int64) string {
	if cached, err := s.cache.Get(ctx, chatID); err == nil && cached != nil {
		return cached.Language
	}

	p, err := s.repo.FindByChatID(ctx, chatID)
	if err != nil {
		return ""
	}

	return p.Language
}

func (s *Service) cacheProfile(ctx context.Context, p *Profile) {
	if err := s.cache.Set(ctx, p, cacheTTL); err != nil {
		s.log.Warn("failed to cache profile", slog.Int64("chat_id", p.ChatID), slog.Any("error", err))
	}
}
