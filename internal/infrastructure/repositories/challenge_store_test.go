package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

func setupChallengeStore(t *testing.T) (domain.ChallengeStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewChallengeStore(client), mr
}

func TestChallengeStorePutAndPending(t *testing.T) {
	store, _ := setupChallengeStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "jti-1", 7, time.Minute))

	pending, err := store.Pending(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, pending)

	pending, err = store.Pending(ctx, "jti-other")
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestChallengeStoreConsumeIsSingleUse(t *testing.T) {
	store, _ := setupChallengeStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "jti-1", 7, time.Minute))

	consumed, err := store.Consume(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, consumed)

	// Second consume of the same jti loses.
	consumed, err = store.Consume(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, consumed)

	pending, err := store.Pending(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestChallengeStoreConsumeMissing(t *testing.T) {
	store, _ := setupChallengeStore(t)

	consumed, err := store.Consume(context.Background(), "never-put")
	require.NoError(t, err)
	assert.False(t, consumed)
}

func TestChallengeStoreExpiry(t *testing.T) {
	store, mr := setupChallengeStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "jti-1", 7, 30*time.Second))

	mr.FastForward(31 * time.Second)

	pending, err := store.Pending(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, pending)

	consumed, err := store.Consume(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, consumed)
}
