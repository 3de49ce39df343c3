package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
	"github.com/NatanaelSou/TCC-Project/internal/service"
	"github.com/NatanaelSou/TCC-Project/internal/testutil"
)

func setupCronService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	subRepo := repository.NewSubscriptionRepository(db)
	tierRepo := repository.NewTierRepository(db)
	creatorRepo := repository.NewCreatorRepository(db)
	followRepo := repository.NewFollowRepository(db)
	contentRepo := repository.NewContentRepository(db)

	stats := service.NewStatsService(db, tierRepo, creatorRepo, subRepo, followRepo, contentRepo)
	subService := service.NewSubscriptionService(db, subRepo, tierRepo, stats, nil, nil)

	return NewService(subService, stats), db
}

func TestCronService_StartStop(t *testing.T) {
	svc, db := setupCronService(t)
	defer testutil.CleanupTestDB(t, db)

	svc.Start()
	time.Sleep(10 * time.Millisecond)
	svc.Stop()
}

func TestCronService_RunNow(t *testing.T) {
	svc, db := setupCronService(t)
	defer testutil.CleanupTestDB(t, db)

	creator, profile := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	user := testutil.TestUser(t, db)

	past := time.Now().Add(-time.Hour)
	sub := testutil.TestSubscription(t, db, user.ID, creator.ID, tier.ID, testutil.WithEndDate(past))

	// Drift a counter so reconciliation has something to fix
	require.NoError(t, db.Model(profile).Update("follower_count", 7).Error)

	require.NoError(t, svc.RunNow())

	var got model.Subscription
	require.NoError(t, db.First(&got, sub.ID).Error)
	assert.Equal(t, "expired", got.Status)

	var gotProfile model.CreatorProfile
	require.NoError(t, db.Where("user_id = ?", creator.ID).First(&gotProfile).Error)
	assert.Equal(t, 0, gotProfile.FollowerCount)
	assert.Equal(t, 0, gotProfile.SubscriberCount)
}
