package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestEventMessages(t *testing.T) {
	// Every event type should have a default notification message
	types := []string{EventSubscribed, EventCancelled, EventReactivated, EventJoined, EventFollowed, EventUnfollowed}

	for _, typ := range types {
		msg, ok := EventMessages[typ]
		assert.True(t, ok, "event %s should have message", typ)
		assert.NotEmpty(t, msg)
	}
}

func TestEvent_JSON(t *testing.T) {
	event := &Event{
		Type:           EventSubscribed,
		UserID:         1,
		CreatorID:      2,
		TierID:         3,
		SubscriptionID: 4,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	// Verify snake_case keys
	var raw map[string]interface{}
	err = json.Unmarshal(data, &raw)
	require.NoError(t, err)

	assert.Contains(t, raw, "user_id")
	assert.Contains(t, raw, "creator_id")
	assert.Contains(t, raw, "tier_id")
	assert.Contains(t, raw, "subscription_id")

	var decoded Event
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, event.UserID, decoded.UserID)
	assert.Equal(t, event.SubscriptionID, decoded.SubscriptionID)
}

func TestEvent_OmitEmpty(t *testing.T) {
	event := &Event{
		Type:      EventFollowed,
		UserID:    1,
		CreatorID: 2,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]interface{}
	err = json.Unmarshal(data, &raw)
	require.NoError(t, err)

	assert.NotContains(t, raw, "tier_id")
	assert.NotContains(t, raw, "channel_id")
	assert.NotContains(t, raw, "subscription_id")
}

func TestPublisher_PublishEvent(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	publisher := NewPublisher(client)
	ctx := context.Background()

	// Subscribe first so the publish is observable
	pubsub := client.Subscribe(ctx, ChannelDomainEvents)
	defer pubsub.Close()
	_, err := pubsub.Receive(ctx)
	require.NoError(t, err)

	err = publisher.PublishEvent(ctx, &Event{
		Type:      EventSubscribed,
		UserID:    42,
		CreatorID: 9,
		TierID:    2,
	})
	require.NoError(t, err)

	select {
	case msg := <-pubsub.Channel():
		var event Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, EventSubscribed, event.Type)
		assert.Equal(t, int64(42), event.UserID)
		// Default message should be filled in
		assert.Equal(t, EventMessages[EventSubscribed], event.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

func TestSubscriber_Subscribe_ContextCancel(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	subscriber := NewSubscriber(client)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- subscriber.Subscribe(ctx, func(*Event) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop on context cancel")
	}
}
