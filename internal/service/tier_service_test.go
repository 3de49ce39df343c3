package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
	"github.com/NatanaelSou/TCC-Project/internal/testutil"
)

func newTierService(db *gorm.DB) *TierService {
	return NewTierService(db, repository.NewTierRepository(db), repository.NewCreatorRepository(db))
}

func TestTierService_Create_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	service := newTierService(db)

	maxSubs := 100
	item, err := service.Create(creator.ID, &dto.CreateTierRequest{
		Name:           "Gold",
		Price:          25.0,
		Benefits:       []string{"exclusive posts", "private chat"},
		MaxSubscribers: &maxSubs,
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "Gold", item.Name)
	assert.Equal(t, 25.0, item.Price)
	assert.True(t, item.IsActive)
	assert.False(t, item.IsFull)
	require.NotNil(t, item.MaxSubscribers)
	assert.Equal(t, 100, *item.MaxSubscribers)
}

func TestTierService_Create_NotCreator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.TestUser(t, db)
	service := newTierService(db)

	_, err := service.Create(user.ID, &dto.CreateTierRequest{Name: "Gold", Price: 10})
	assert.Equal(t, ErrNotCreator, err)
}

func TestTierService_ListByCreator_OrderedByPrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	testutil.TestTier(t, db, creator.ID, testutil.WithPrice(30))
	testutil.TestTier(t, db, creator.ID, testutil.WithPrice(5))
	testutil.TestTier(t, db, creator.ID, testutil.WithPrice(15))
	// Deactivated tiers are excluded from the listing
	testutil.TestTier(t, db, creator.ID, testutil.WithPrice(1), testutil.WithInactive())

	service := newTierService(db)

	items, err := service.ListByCreator(creator.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, 5.0, items[0].Price)
	assert.Equal(t, 15.0, items[1].Price)
	assert.Equal(t, 30.0, items[2].Price)
}

func TestTierService_Update_OwnershipChecked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	other, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)

	service := newTierService(db)

	name := "Renamed"
	_, err := service.Update(tier.ID, other.ID, &dto.UpdateTierRequest{Name: &name})
	assert.Equal(t, ErrTierNotOwned, err)

	item, err := service.Update(tier.ID, creator.ID, &dto.UpdateTierRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", item.Name)
}

func TestTierService_Deactivate_WithActiveSubscribers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	user := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, user.ID, creator.ID, tier.ID)

	service := newTierService(db)

	err := service.Deactivate(tier.ID, creator.ID)
	assert.Equal(t, ErrTierHasSubscriber, err)

	// Still active
	item, err := service.Get(tier.ID)
	require.NoError(t, err)
	assert.True(t, item.IsActive)
}

func TestTierService_Deactivate_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	user := testutil.TestUser(t, db)
	// Cancelled subscriptions do not block deactivation
	testutil.TestSubscription(t, db, user.ID, creator.ID, tier.ID, testutil.WithStatus("cancelled"))

	service := newTierService(db)

	require.NoError(t, service.Deactivate(tier.ID, creator.ID))

	item, err := service.Get(tier.ID)
	require.NoError(t, err)
	assert.False(t, item.IsActive)
}

func TestTierService_Deactivate_NotOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	other, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)

	service := newTierService(db)

	err := service.Deactivate(tier.ID, other.ID)
	assert.Equal(t, ErrTierNotOwned, err)
}

func TestTierService_IsAtCapacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	unlimited := testutil.TestTier(t, db, creator.ID)
	limited := testutil.TestTier(t, db, creator.ID, testutil.WithMaxSubscribers(1))
	user := testutil.TestUser(t, db)

	service := newTierService(db)

	full, err := service.IsAtCapacity(unlimited.ID)
	require.NoError(t, err)
	assert.False(t, full)

	full, err = service.IsAtCapacity(limited.ID)
	require.NoError(t, err)
	assert.False(t, full)

	testutil.TestSubscription(t, db, user.ID, creator.ID, limited.ID)

	full, err = service.IsAtCapacity(limited.ID)
	require.NoError(t, err)
	assert.True(t, full)
}
