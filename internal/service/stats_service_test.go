package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
	"github.com/NatanaelSou/TCC-Project/internal/testutil"
)

func newStatsService(db *gorm.DB) *StatsService {
	return NewStatsService(
		db,
		repository.NewTierRepository(db),
		repository.NewCreatorRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewFollowRepository(db),
		repository.NewContentRepository(db),
	)
}

func TestStatsService_Recompute_FixesDrift(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, profile := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	a := testutil.TestUser(t, db)
	b := testutil.TestUser(t, db)

	testutil.TestSubscription(t, db, a.ID, creator.ID, tier.ID)
	testutil.TestSubscription(t, db, b.ID, creator.ID, tier.ID, testutil.WithStatus("cancelled"))
	testutil.TestFollow(t, db, a.ID, creator.ID)
	testutil.TestContent(t, db, creator.ID)
	testutil.TestContent(t, db, creator.ID)

	// Drift the counters away from ground truth
	require.NoError(t, db.Model(profile).Updates(map[string]interface{}{
		"subscriber_count": 42,
		"follower_count":   42,
		"post_count":       42,
	}).Error)
	require.NoError(t, db.Model(&model.Tier{}).Where("id = ?", tier.ID).
		Update("subscriber_count", 42).Error)

	service := newStatsService(db)
	require.NoError(t, service.Recompute(creator.ID))

	var got model.CreatorProfile
	require.NoError(t, db.Where("user_id = ?", creator.ID).First(&got).Error)
	assert.Equal(t, 1, got.SubscriberCount)
	assert.Equal(t, 1, got.FollowerCount)
	assert.Equal(t, 2, got.PostCount)

	var gotTier model.Tier
	require.NoError(t, db.First(&gotTier, tier.ID).Error)
	assert.Equal(t, 1, gotTier.SubscriberCount)
}

func TestStatsService_RecomputeAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	_, first := testutil.TestCreator(t, db)
	_, second := testutil.TestCreator(t, db)
	require.NoError(t, db.Model(first).Update("subscriber_count", 99).Error)
	require.NoError(t, db.Model(second).Update("follower_count", 99).Error)

	service := newStatsService(db)

	n, err := service.RecomputeAll()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var profiles []model.CreatorProfile
	require.NoError(t, db.Find(&profiles).Error)
	for _, p := range profiles {
		assert.Zero(t, p.SubscriberCount)
		assert.Zero(t, p.FollowerCount)
	}
}
