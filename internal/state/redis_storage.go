package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	convKeyPattern  = "conv:state:%d"
	convScanPattern = "conv:state:*"
	scanBatchCount  = 100
)

// RedisStorage persists conversation state in Redis with a TTL, so abandoned
// dialogues expire on their own even without the cleaner.
type RedisStorage struct {
	client *redis.Client
	log    *slog.Logger
	ttl    time.Duration
}

// NewRedisStorage initializes a Redis-backed Storage implementation.
func NewRedisStorage(client *redis.Client, log *slog.Logger, ttl time.Duration) *RedisStorage {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &RedisStorage{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

// Get returns the stored conversation or ErrNotFound when absent.
func (s *RedisStorage) Get(ctx context.Context, chatID int64) (*Conversation, error) {
	data, err := s.client.Get(ctx, redisConvKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		s.log.Error("failed to get conversation from redis", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return nil, err
	}

	var conv Conversation
	if err := json.Unmarshal([]byte(data), &conv); err != nil {
		s.log.Error("failed to decode conversation", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return nil, err
	}

	return &conv, nil
}

// Put saves the conversation under the session TTL.
func (s *RedisStorage) Put(ctx context.Context, chatID int64, conv *Conversation) error {
	if conv == nil {
		return nil
	}

	conv.ChatID = chatID
	conv.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(conv)
	if err != nil {
		s.log.Error("failed to encode conversation", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return err
	}

	if err := s.client.Set(ctx, redisConvKey(chatID), data, s.ttl).Err(); err != nil {
		s.log.Error("failed to save conversation in redis", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return err
	}

	return nil
}

// Remove deletes the stored conversation for the chat.
func (s *RedisStorage) Remove(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, redisConvKey(chatID)).Err(); err != nil {
		s.log.Error("failed to remove conversation", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return err
	}

	return nil
}

// All retrieves every stored conversation by scanning Redis keys.
func (s *RedisStorage) All(ctx context.Context) ([]*Conversation, error) {
	var (
		cursor uint64
		result []*Conversation
	)

	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, convScanPattern, scanBatchCount).Result()
		if err != nil {
			s.log.Error("failed to scan conversations", slog.Any("error", err))
			return nil, err
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}

				s.log.Error("failed to fetch conversation", slog.String("key", key), slog.Any("error", err))
				return nil, err
			}

			var conv Conversation
			if err := json.Unmarshal([]byte(data), &conv); err != nil {
				s.log.Error("failed to decode conversation", slog.String("key", key), slog.Any("error", err))
				continue
			}

			copied := conv
			result = append(result, &copied)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return result, nil
}

func redisConvKey(chatID int64) string {
	return fmt.Sprintf(convKeyPattern, chatID)
}
