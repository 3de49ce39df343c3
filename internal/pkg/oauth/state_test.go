package oauth

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStateStore(t *testing.T) (*StateStore, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return NewStateStore(client), cleanup
}

func TestStateStore_GenerateAndValidate(t *testing.T) {
	store, cleanup := setupStateStore(t)
	defer cleanup()

	ctx := context.Background()

	state, err := store.GenerateState(ctx, "https://example.com/callback")
	require.NoError(t, err)
	assert.Len(t, state, 64) // 32 bytes hex encoded

	redirectURI, err := store.ValidateState(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/callback", redirectURI)
}

func TestStateStore_ValidateState_Consumed(t *testing.T) {
	store, cleanup := setupStateStore(t)
	defer cleanup()

	ctx := context.Background()

	state, err := store.GenerateState(ctx, "https://example.com/callback")
	require.NoError(t, err)

	_, err = store.ValidateState(ctx, state)
	require.NoError(t, err)

	// Replay should fail
	_, err = store.ValidateState(ctx, state)
	assert.Error(t, err)
}

func TestStateStore_ValidateState_Invalid(t *testing.T) {
	store, cleanup := setupStateStore(t)
	defer cleanup()

	_, err := store.ValidateState(context.Background(), "bogus")
	assert.Error(t, err)

	_, err = store.ValidateState(context.Background(), "")
	assert.Error(t, err)
}
