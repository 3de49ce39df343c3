package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NatanaelSou/TCC-Project/internal/repository"
	"github.com/NatanaelSou/TCC-Project/internal/testutil"
)

func TestEvaluate_DefaultDeny(t *testing.T) {
	tierID := int64(2)

	// Unrestricted items are visible to everyone, including anonymous
	assert.True(t, Evaluate(AccessInput{ViewerID: 0, OwnerID: 9, Restricted: false}))
	assert.True(t, Evaluate(AccessInput{ViewerID: 42, OwnerID: 9, Restricted: false}))

	// Owner always sees their own items
	assert.True(t, Evaluate(AccessInput{ViewerID: 9, OwnerID: 9, Restricted: true}))
	assert.True(t, Evaluate(AccessInput{ViewerID: 9, OwnerID: 9, Restricted: true, TierRequired: &tierID}))

	// Restricted without a tier gate: nobody but the owner or a member
	assert.False(t, Evaluate(AccessInput{ViewerID: 42, OwnerID: 9, Restricted: true}))
	assert.False(t, Evaluate(AccessInput{ViewerID: 0, OwnerID: 9, Restricted: true}))

	// Channel membership unlocks even when no tier gate is configured
	assert.True(t, Evaluate(AccessInput{ViewerID: 42, OwnerID: 9, Restricted: true, IsMember: true}))

	// Tier gate: subscription or channel membership unlocks
	assert.False(t, Evaluate(AccessInput{ViewerID: 42, OwnerID: 9, Restricted: true, TierRequired: &tierID}))
	assert.True(t, Evaluate(AccessInput{ViewerID: 42, OwnerID: 9, Restricted: true, TierRequired: &tierID, HasTierSub: true}))
	assert.True(t, Evaluate(AccessInput{ViewerID: 42, OwnerID: 9, Restricted: true, TierRequired: &tierID, IsMember: true}))

	// Anonymous viewers never pass a tier gate
	assert.False(t, Evaluate(AccessInput{ViewerID: 0, OwnerID: 9, Restricted: true, TierRequired: &tierID}))
}

func TestEvaluate_Deterministic(t *testing.T) {
	tierID := int64(2)
	in := AccessInput{ViewerID: 42, OwnerID: 9, Restricted: true, TierRequired: &tierID, HasTierSub: true}

	first := Evaluate(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(in))
	}
}

func TestEntitlementService_CanAccessContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	subscriber := testutil.TestUser(t, db)
	stranger := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, subscriber.ID, creator.ID, tier.ID)

	free := testutil.TestContent(t, db, creator.ID)
	gated := testutil.TestContent(t, db, creator.ID, testutil.WithPremium(&tier.ID))
	orphanPremium := testutil.TestContent(t, db, creator.ID, testutil.WithPremium(nil))

	service := NewEntitlementService(
		repository.NewSubscriptionRepository(db),
		repository.NewChannelRepository(db),
	)

	// Free content is open to everyone
	for _, viewerID := range []int64{0, creator.ID, subscriber.ID, stranger.ID} {
		allowed, err := service.CanAccessContent(viewerID, free)
		require.NoError(t, err)
		assert.True(t, allowed, "viewer %d should access free content", viewerID)
	}

	// Gated content requires the subscription
	allowed, err := service.CanAccessContent(subscriber.ID, gated)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = service.CanAccessContent(stranger.ID, gated)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = service.CanAccessContent(0, gated)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = service.CanAccessContent(creator.ID, gated)
	require.NoError(t, err)
	assert.True(t, allowed)

	// Premium without a tier: deny everyone but the creator
	allowed, err = service.CanAccessContent(subscriber.ID, orphanPremium)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = service.CanAccessContent(creator.ID, orphanPremium)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestEntitlementService_CanAccessChannel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	subscriber := testutil.TestUser(t, db)
	member := testutil.TestUser(t, db)
	stranger := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, subscriber.ID, creator.ID, tier.ID)

	public := testutil.TestChannel(t, db, creator.ID)
	gated := testutil.TestChannel(t, db, creator.ID, testutil.WithPrivate(&tier.ID))
	privateOpen := testutil.TestChannel(t, db, creator.ID, testutil.WithPrivate(nil))
	testutil.TestMember(t, db, gated.ID, member.ID)
	testutil.TestMember(t, db, privateOpen.ID, member.ID)

	service := NewEntitlementService(
		repository.NewSubscriptionRepository(db),
		repository.NewChannelRepository(db),
	)

	allowed, err := service.CanAccessChannel(stranger.ID, public)
	require.NoError(t, err)
	assert.True(t, allowed)

	// Subscription or existing membership unlocks the gated channel
	allowed, err = service.CanAccessChannel(subscriber.ID, gated)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = service.CanAccessChannel(member.ID, gated)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = service.CanAccessChannel(stranger.ID, gated)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = service.CanAccessChannel(creator.ID, gated)
	require.NoError(t, err)
	assert.True(t, allowed)

	// Private channel without a tier gate: members in, strangers out
	allowed, err = service.CanAccessChannel(member.ID, privateOpen)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = service.CanAccessChannel(stranger.ID, privateOpen)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestEntitlementService_CanJoinChannel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	subscriber := testutil.TestUser(t, db)
	stranger := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, subscriber.ID, creator.ID, tier.ID)

	gated := testutil.TestChannel(t, db, creator.ID, testutil.WithPrivate(&tier.ID))
	// Private channel without a tier gate stays joinable
	privateOpen := testutil.TestChannel(t, db, creator.ID, testutil.WithPrivate(nil))

	service := NewEntitlementService(
		repository.NewSubscriptionRepository(db),
		repository.NewChannelRepository(db),
	)

	ok, err := service.CanJoinChannel(subscriber.ID, gated)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.CanJoinChannel(stranger.ID, gated)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = service.CanJoinChannel(stranger.ID, privateOpen)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.CanJoinChannel(creator.ID, gated)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEntitlementService_CanAccessChannelItem(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	sender := testutil.TestUser(t, db)
	subscriber := testutil.TestUser(t, db)
	member := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, subscriber.ID, creator.ID, tier.ID)

	service := NewEntitlementService(
		repository.NewSubscriptionRepository(db),
		repository.NewChannelRepository(db),
	)

	// Public item is visible to everyone in the channel
	ok, err := service.CanAccessChannelItem(member.ID, creator.ID, sender.ID, false, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	// Tier-gated item: subscription required, plain membership does not count
	ok, err = service.CanAccessChannelItem(subscriber.ID, creator.ID, sender.ID, true, &tier.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.CanAccessChannelItem(member.ID, creator.ID, sender.ID, true, &tier.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// The item's author and the channel creator always see it
	ok, err = service.CanAccessChannelItem(sender.ID, creator.ID, sender.ID, true, &tier.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.CanAccessChannelItem(creator.ID, creator.ID, sender.ID, true, &tier.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
