package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
	"github.com/NatanaelSou/TCC-Project/internal/testutil"
)

func newCreatorService(db *gorm.DB) *CreatorService {
	subRepo := repository.NewSubscriptionRepository(db)
	tierRepo := repository.NewTierRepository(db)
	creatorRepo := repository.NewCreatorRepository(db)
	followRepo := repository.NewFollowRepository(db)
	contentRepo := repository.NewContentRepository(db)
	stats := NewStatsService(db, tierRepo, creatorRepo, subRepo, followRepo, contentRepo)

	return NewCreatorService(db, creatorRepo, followRepo, subRepo, stats, nil, nil)
}

func TestCreatorService_BecomeCreator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.TestUser(t, db)
	service := newCreatorService(db)

	info, err := service.BecomeCreator(user.ID, &dto.BecomeCreatorRequest{
		DisplayName: "Art by Ana",
		SocialLinks: map[string]string{"twitter": "https://twitter.com/ana"},
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, info.UserID)
	assert.Equal(t, "Art by Ana", info.DisplayName)

	_, err = service.BecomeCreator(user.ID, &dto.BecomeCreatorRequest{DisplayName: "Again"})
	assert.Equal(t, ErrAlreadyCreator, err)
}

func TestCreatorService_ToggleFollow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	user := testutil.TestUser(t, db)

	service := newCreatorService(db)

	resp, err := service.ToggleFollow(context.Background(), user.ID, creator.ID)
	require.NoError(t, err)
	assert.True(t, resp.Following)
	assert.Equal(t, int64(1), resp.FollowerCount)

	var profile model.CreatorProfile
	require.NoError(t, db.Where("user_id = ?", creator.ID).First(&profile).Error)
	assert.Equal(t, 1, profile.FollowerCount)

	// Toggling again unfollows
	resp, err = service.ToggleFollow(context.Background(), user.ID, creator.ID)
	require.NoError(t, err)
	assert.False(t, resp.Following)
	assert.Equal(t, int64(0), resp.FollowerCount)

	require.NoError(t, db.Where("user_id = ?", creator.ID).First(&profile).Error)
	assert.Equal(t, 0, profile.FollowerCount)
}

func TestCreatorService_ToggleFollow_Self(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	service := newCreatorService(db)

	_, err := service.ToggleFollow(context.Background(), creator.ID, creator.ID)
	assert.Equal(t, ErrSelfFollow, err)
}

func TestCreatorService_GetCreator_ViewerFlags(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	user := testutil.TestUser(t, db)
	testutil.TestFollow(t, db, user.ID, creator.ID)
	testutil.TestSubscription(t, db, user.ID, creator.ID, tier.ID)

	service := newCreatorService(db)

	info, err := service.GetCreator(user.ID, creator.ID)
	require.NoError(t, err)
	assert.True(t, info.IsFollowing)
	assert.True(t, info.IsSubscribed)

	stranger := testutil.TestUser(t, db)
	info, err = service.GetCreator(stranger.ID, creator.ID)
	require.NoError(t, err)
	assert.False(t, info.IsFollowing)
	assert.False(t, info.IsSubscribed)

	_, err = service.GetCreator(user.ID, 99999)
	assert.Equal(t, ErrCreatorNotFound, err)
}

func TestCreatorService_ListPopular(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	_, small := testutil.TestCreator(t, db)
	_, big := testutil.TestCreator(t, db)
	require.NoError(t, db.Model(small).Update("subscriber_count", 3).Error)
	require.NoError(t, db.Model(big).Update("subscriber_count", 10).Error)

	service := newCreatorService(db)

	infos, err := service.ListPopular(10)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, big.UserID, infos[0].UserID)
	assert.Equal(t, small.UserID, infos[1].UserID)
}

func TestCreatorService_GetStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, profile := testutil.TestCreator(t, db)
	cheap := testutil.TestTier(t, db, creator.ID, testutil.WithPrice(5))
	pricey := testutil.TestTier(t, db, creator.ID, testutil.WithPrice(20))
	a := testutil.TestUser(t, db)
	b := testutil.TestUser(t, db)
	c := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, a.ID, creator.ID, cheap.ID)
	testutil.TestSubscription(t, db, b.ID, creator.ID, pricey.ID)
	// Cancelled subscriptions do not count toward revenue
	testutil.TestSubscription(t, db, c.ID, creator.ID, pricey.ID, testutil.WithStatus("cancelled"))

	require.NoError(t, db.Model(profile).Update("total_earnings", 123.45).Error)

	service := newCreatorService(db)

	stats, err := service.GetStats(creator.ID)
	require.NoError(t, err)
	assert.Equal(t, 123.45, stats.TotalEarnings)
	assert.Equal(t, 25.0, stats.MonthlyRevenue)
}

func TestCreatorService_UpdateCreator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	service := newCreatorService(db)

	name := "New Name"
	site := "https://example.com"
	info, err := service.UpdateCreator(creator.ID, &dto.UpdateCreatorRequest{
		DisplayName: &name,
		Website:     &site,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", info.DisplayName)
	assert.Equal(t, "https://example.com", info.Website)
}
