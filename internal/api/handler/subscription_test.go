package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/response"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
	"github.com/NatanaelSou/TCC-Project/internal/service"
	"github.com/NatanaelSou/TCC-Project/internal/testutil"
)

func newSubscriptionHandler(db *gorm.DB) *SubscriptionHandler {
	tierRepo := repository.NewTierRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	creatorRepo := repository.NewCreatorRepository(db)
	followRepo := repository.NewFollowRepository(db)
	contentRepo := repository.NewContentRepository(db)

	stats := service.NewStatsService(db, tierRepo, creatorRepo, subRepo, followRepo, contentRepo)
	subService := service.NewSubscriptionService(db, subRepo, tierRepo, stats, nil, nil)
	return NewSubscriptionHandler(subService)
}

func TestSubscriptionHandler_Subscribe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	handler := newSubscriptionHandler(db)
	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	fan := testutil.TestUser(t, db)

	router := gin.New()
	router.POST("/subscriptions", asUser(fan.ID), handler.Subscribe)

	w := performRequest(router, "POST", "/subscriptions", dto.SubscribeRequest{TierID: tier.ID})
	resp := parseResponse(t, w)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	// Same tier again is a conflict
	w = performRequest(router, "POST", "/subscriptions", dto.SubscribeRequest{TierID: tier.ID})
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeConflict, resp.Code)
}

func TestSubscriptionHandler_Subscribe_TierNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	handler := newSubscriptionHandler(db)
	fan := testutil.TestUser(t, db)

	router := gin.New()
	router.POST("/subscriptions", asUser(fan.ID), handler.Subscribe)

	w := performRequest(router, "POST", "/subscriptions", dto.SubscribeRequest{TierID: 9999})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestSubscriptionHandler_CancelNotOwned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	handler := newSubscriptionHandler(db)
	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	fan := testutil.TestUser(t, db)
	stranger := testutil.TestUser(t, db)
	sub := testutil.TestSubscription(t, db, fan.ID, creator.ID, tier.ID)

	router := gin.New()
	router.POST("/subscriptions/:id/cancel", asUser(stranger.ID), handler.Cancel)

	w := performRequest(router, "POST", fmt.Sprintf("/subscriptions/%d/cancel", sub.ID), nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodePermissionDenied, resp.Code)
}

func TestSubscriptionHandler_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	handler := newSubscriptionHandler(db)
	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	fan := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, fan.ID, creator.ID, tier.ID)

	router := gin.New()
	router.GET("/subscriptions", asUser(fan.ID), handler.List)

	w := performRequest(router, "GET", "/subscriptions", nil)
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)
	items, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 1)
}
