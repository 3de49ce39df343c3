package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model"
	"github.com/NatanaelSou/TCC-Project/internal/testutil"
)

func TestSubscriptionRepository_ExistsActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	fan := testutil.TestUser(t, db)

	// No subscription yet
	exists, err := repo.ExistsActive(fan.ID, tier.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	testutil.TestSubscription(t, db, fan.ID, creator.ID, tier.ID)

	exists, err = repo.ExistsActive(fan.ID, tier.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSubscriptionRepository_ExistsActive_IgnoresCancelled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	fan := testutil.TestUser(t, db)

	testutil.TestSubscription(t, db, fan.ID, creator.ID, tier.ID, testutil.WithStatus("cancelled"))

	exists, err := repo.ExistsActive(fan.ID, tier.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

// The composite unique index on (user_id, tier_id, active_key) is the
// race backstop: a second active row for the same user and tier must be
// rejected at the storage layer, while any number of inactive rows
// coexist.
func TestSubscriptionRepository_UniqueActiveIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	fan := testutil.TestUser(t, db)

	testutil.TestSubscription(t, db, fan.ID, creator.ID, tier.ID)

	activeKey := model.SubscriptionActiveKey
	dup := &model.Subscription{
		UserID:    fan.ID,
		CreatorID: creator.ID,
		TierID:    tier.ID,
		Status:    "active",
		ActiveKey: &activeKey,
		StartDate: time.Now(),
	}
	err := repo.Create(dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	// A cancelled row alongside the active one is fine
	testutil.TestSubscription(t, db, fan.ID, creator.ID, tier.ID, testutil.WithStatus("cancelled"))

	count, err := repo.CountActiveByTier(tier.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSubscriptionRepository_ListExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	overdueFan := testutil.TestUser(t, db)
	currentFan := testutil.TestUser(t, db)

	overdue := testutil.TestSubscription(t, db, overdueFan.ID, creator.ID, tier.ID,
		testutil.WithEndDate(time.Now().Add(-time.Hour)))
	testutil.TestSubscription(t, db, currentFan.ID, creator.ID, tier.ID,
		testutil.WithEndDate(time.Now().Add(24*time.Hour)))

	expired, err := repo.ListExpired(time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, overdue.ID, expired[0].ID)
}
