package idempotency

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDeduplicator_ClaimsOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dedup := NewRedisDeduplicator(client, time.Minute, log)
	ctx := context.Background()

	seen, err := dedup.Seen(ctx, 1001)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = dedup.Seen(ctx, 1001)
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = dedup.Seen(ctx, 1002)
	require.NoError(t, err)
	assert.False(t, seen, "different update ids are independent")
}

func TestRedisDeduplicator_ClaimExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dedup := NewRedisDeduplicator(client, time.Minute, log)
	ctx := context.Background()

	_, err := dedup.Seen(ctx, 2001)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	seen, err := dedup.Seen(ctx, 2001)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMemoryDeduplicator(t *testing.T) {
	dedup := NewMemoryDeduplicator(time.Minute)
	ctx := context.Background()

	seen, err := dedup.Seen(ctx, 3001)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = dedup.Seen(ctx, 3001)
	require.NoError(t, err)
	assert.True(t, seen)
}
