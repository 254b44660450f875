package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	convLockKeyPattern = "conv:lock:%d"
	lockTTL            = 30 * time.Second
)

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe phase transitions.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}

// UpdateFunc inspects the current conversation (nil when none exists) and
// returns the conversation to persist. Returning nil clears the stored state.
type UpdateFunc func(current *Conversation) (*Conversation, error)

// Machine serializes conversation updates per chat. All read-modify-write
// cycles for one chat run under that chat's lock; unrelated chats proceed
// in parallel. With a Redis client configured the lock also spans instances.
type Machine struct {
	storage     Storage
	log         *slog.Logger
	redisClient *redis.Client

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewMachine creates a conversation state machine over the given storage.
// redisClient may be nil for single-instance deployments.
func NewMachine(storage Storage, log *slog.Logger, redisClient *redis.Client) *Machine {
	if log == nil {
		log = slog.Default()
	}

	return &Machine{
		storage:     storage,
		log:         log,
		redisClient: redisClient,
		locks:       make(map[int64]*sync.Mutex),
	}
}

// Get returns the current conversation without taking the update lock.
func (m *Machine) Get(ctx context.Context, chatID int64) (*Conversation, error) {
	return m.storage.Get(ctx, chatID)
}

// All returns every stored conversation.
func (m *Machine) All(ctx context.Context) ([]*Conversation, error) {
	return m.storage.All(ctx)
}

// Update runs fn under the chat's lock. The conversation fn returns is
// persisted after a transition check; terminal conversations are removed
// immediately so no stale terminal state can swallow later input. The
// persisted (or cleared) conversation is returned.
func (m *Machine) Update(ctx context.Context, chatID int64, fn UpdateFunc) (*Conversation, error) {
	if fn == nil {
		return nil, errors.New("update fn cannot be nil")
	}

	unlock, err := m.lock(ctx, chatID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := m.storage.Get(ctx, chatID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	if next == nil {
		if current == nil {
			return nil, nil
		}
		return nil, m.storage.Remove(ctx, chatID)
	}

	fromPhase := PhaseIdle
	if current != nil {
		fromPhase = current.Phase
	}

	if next.Phase != fromPhase {
		if !IsTransitionAllowed(fromPhase, next.Phase) {
			m.log.Warn("invalid phase transition",
				slog.Int64("chat_id", chatID),
				slog.String("from", string(fromPhase)),
				slog.String("to", string(next.Phase)),
			)
			return nil, ErrInvalidTransition
		}

		transitionRecorder(string(fromPhase), string(next.Phase))
	}

	if next.Phase.Terminal() {
		if current != nil {
			if err := m.storage.Remove(ctx, chatID); err != nil {
				return nil, err
			}
		}
		return next, nil
	}

	if err := m.storage.Put(ctx, chatID, next); err != nil {
		return nil, err
	}

	return next, nil
}

// Clear removes the conversation for the chat under its lock.
func (m *Machine) Clear(ctx context.Context, chatID int64) error {
	unlock, err := m.lock(ctx, chatID)
	if err != nil {
		return err
	}
	defer unlock()

	return m.storage.Remove(ctx, chatID)
}

// lock takes the in-process per-chat mutex and, when Redis is configured,
// the cross-instance lock on top of it.
func (m *Machine) lock(ctx context.Context, chatID int64) (func(), error) {
	local := m.localLock(chatID)
	local.Lock()

	if m.redisClient == nil {
		return local.Unlock, nil
	}

	key := fmt.Sprintf(convLockKeyPattern, chatID)
	acquired, err := m.redisClient.SetNX(ctx, key, 1, lockTTL).Result()
	if err != nil {
		local.Unlock()
		m.log.Error("failed to acquire conversation lock", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return nil, err
	}

	if !acquired {
		local.Unlock()
		m.log.Warn("conversation lock already held", slog.Int64("chat_id", chatID))
		return nil, ErrLocked
	}

	return func() {
		if err := m.redisClient.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
			m.log.Error("failed to release conversation lock", slog.Int64("chat_id", chatID), slog.Any("error", err))
		}
		local.Unlock()
	}, nil
}

func (m *Machine) localLock(chatID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[chatID] = lock
	}

	return lock
}
