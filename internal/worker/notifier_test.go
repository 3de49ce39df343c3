package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NatanaelSou/TCC-Project/internal/pkg/pubsub"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/queue"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
	"github.com/NatanaelSou/TCC-Project/internal/testutil"
)

func TestNotifier_Process_MissingUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	notifier := NewNotifier(
		repository.NewUserRepository(db),
		repository.NewTierRepository(db),
		repository.NewChannelRepository(db),
		nil, // no SMTP in tests
		nil,
	)

	// Jobs referencing deleted users are dropped without error
	err := notifier.Process(context.Background(), &queue.NotificationJob{
		EventType: pubsub.EventSubscribed,
		UserID:    12345,
		CreatorID: 67890,
	})
	assert.NoError(t, err)
}

func TestNotifier_Process_NoEmailConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	user := testutil.TestUser(t, db)
	tier := testutil.TestTier(t, db, creator.ID)

	notifier := NewNotifier(
		repository.NewUserRepository(db),
		repository.NewTierRepository(db),
		repository.NewChannelRepository(db),
		nil,
		nil,
	)

	// With no email service the job still succeeds (realtime push only)
	err := notifier.Process(context.Background(), &queue.NotificationJob{
		EventType: pubsub.EventSubscribed,
		UserID:    user.ID,
		CreatorID: creator.ID,
		TierID:    tier.ID,
	})
	require.NoError(t, err)

	// Unknown event types are ignored
	err = notifier.Process(context.Background(), &queue.NotificationJob{
		EventType: "unknown",
		UserID:    user.ID,
		CreatorID: creator.ID,
	})
	assert.NoError(t, err)
}
