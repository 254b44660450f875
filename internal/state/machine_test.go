package state

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errStorageFailure = errors.New("storage error")

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Get(ctx context.Context, chatID int64) (*Conversation, error) {
	args := m.Called(ctx, chatID)
	conv, _ := args.Get(0).(*Conversation)
	return conv, args.Error(1)
}

func (m *mockStorage) Put(ctx context.Context, chatID int64, conv *Conversation) error {
	args := m.Called(ctx, chatID, conv)
	return args.Error(0)
}

func (m *mockStorage) Remove(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *mockStorage) All(ctx context.Context) ([]*Conversation, error) {
	args := m.Called(ctx)
	convs, _ := args.Get(0).([]*Conversation)
	return convs, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMachine_Update(t *testing.T) {
	ctx := context.Background()
	chatID := int64(42)

	testCases := []struct {
		name        string
		setupMocks  func(ms *mockStorage)
		fn          UpdateFunc
		expectPhase Phase
		expectErr   error
	}{
		{
			name: "entry creates conversation",
			setupMocks: func(ms *mockStorage) {
				ms.On("Get", mock.Anything, chatID).Return((*Conversation)(nil), ErrNotFound).Once()
				ms.On("Put", mock.Anything, chatID, mock.MatchedBy(func(conv *Conversation) bool {
					return conv.Phase == PhaseAwaitingAmount
				})).Return(nil).Once()
			},
			fn: func(current *Conversation) (*Conversation, error) {
				return &Conversation{ChatID: chatID, Phase: PhaseAwaitingAmount}, nil
			},
			expectPhase: PhaseAwaitingAmount,
		},
		{
			name: "amount advances to phone",
			setupMocks: func(ms *mockStorage) {
				ms.On("Get", mock.Anything, chatID).
					Return(&Conversation{ChatID: chatID, Phase: PhaseAwaitingAmount}, nil).Once()
				ms.On("Put", mock.Anything, chatID, mock.MatchedBy(func(conv *Conversation) bool {
					return conv.Phase == PhaseAwaitingPhone && conv.Amount == 5000
				})).Return(nil).Once()
			},
			fn: func(current *Conversation) (*Conversation, error) {
				next := *current
				next.Phase = PhaseAwaitingPhone
				next.Amount = 5000
				return &next, nil
			},
			expectPhase: PhaseAwaitingPhone,
		},
		{
			name: "invalid transition is rejected",
			setupMocks: func(ms *mockStorage) {
				ms.On("Get", mock.Anything, chatID).
					Return(&Conversation{ChatID: chatID, Phase: PhaseAwaitingAmount}, nil).Once()
			},
			fn: func(current *Conversation) (*Conversation, error) {
				next := *current
				next.Phase = PhaseCompleted
				return &next, nil
			},
			expectErr: ErrInvalidTransition,
		},
		{
			name: "terminal phase clears storage",
			setupMocks: func(ms *mockStorage) {
				ms.On("Get", mock.Anything, chatID).
					Return(&Conversation{ChatID: chatID, Phase: PhaseAwaitingConfirmation, Amount: 5000, Phone: "0712345678"}, nil).Once()
				ms.On("Remove", mock.Anything, chatID).Return(nil).Once()
			},
			fn: func(current *Conversation) (*Conversation, error) {
				next := *current
				next.Phase = PhaseCompleted
				return &next, nil
			},
			expectPhase: PhaseCompleted,
		},
		{
			name: "nil result removes conversation",
			setupMocks: func(ms *mockStorage) {
				ms.On("Get", mock.Anything, chatID).
					Return(&Conversation{ChatID: chatID, Phase: PhaseAwaitingPhone}, nil).Once()
				ms.On("Remove", mock.Anything, chatID).Return(nil).Once()
			},
			fn: func(current *Conversation) (*Conversation, error) {
				return nil, nil
			},
		},
		{
			name: "storage failure is surfaced",
			setupMocks: func(ms *mockStorage) {
				ms.On("Get", mock.Anything, chatID).Return((*Conversation)(nil), errStorageFailure).Once()
			},
			fn: func(current *Conversation) (*Conversation, error) {
				t.Fatal("fn must not run when the load fails")
				return nil, nil
			},
			expectErr: errStorageFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ms := &mockStorage{}
			tc.setupMocks(ms)

			machine := NewMachine(ms, testLogger(), nil)
			conv, err := machine.Update(ctx, chatID, tc.fn)

			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
			} else {
				require.NoError(t, err)
				if tc.expectPhase != "" {
					require.NotNil(t, conv)
					assert.Equal(t, tc.expectPhase, conv.Phase)
				}
			}

			ms.AssertExpectations(t)
		})
	}
}

// Interleaved updates for the same chat must never mix fields from two turns.
func TestMachine_NoLostUpdates(t *testing.T) {
	ctx := context.Background()
	chatID := int64(7)

	machine := NewMachine(NewMemoryStorage(), testLogger(), nil)

	_, err := machine.Update(ctx, chatID, func(current *Conversation) (*Conversation, error) {
		return &Conversation{ChatID: chatID, Phase: PhaseAwaitingAmount}, nil
	})
	require.NoError(t, err)

	const turns = 100

	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := machine.Update(ctx, chatID, func(current *Conversation) (*Conversation, error) {
				next := *current
				next.Phase = PhaseAwaitingAmount
				next.Amount = next.Amount + 1
				return &next, nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	conv, err := machine.Get(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, turns, conv.Amount, "every read-modify-write must be applied exactly once")
}

func TestMachine_ClearRemovesState(t *testing.T) {
	ctx := context.Background()
	chatID := int64(9)

	machine := NewMachine(NewMemoryStorage(), testLogger(), nil)

	_, err := machine.Update(ctx, chatID, func(current *Conversation) (*Conversation, error) {
		return &Conversation{ChatID: chatID, Phase: PhaseAwaitingAmount}, nil
	})
	require.NoError(t, err)

	require.NoError(t, machine.Clear(ctx, chatID))

	_, err = machine.Get(ctx, chatID)
	require.ErrorIs(t, err, ErrNotFound)
}
