package handler

import (
	"encoding/json"
	"fmt"
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

func newContentHandler(db *gorm.DB) *ContentHandler {
	contentRepo := repository.NewContentRepository(db)
	tierRepo := repository.NewTierRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	followRepo := repository.NewFollowRepository(db)
	creatorRepo := repository.NewCreatorRepository(db)
	channelRepo := repository.NewChannelRepository(db)

	entitlement := service.NewEntitlementService(subRepo, channelRepo)
	stats := service.NewStatsService(db, tierRepo, creatorRepo, subRepo, followRepo, contentRepo)
	contentService := service.NewContentService(db, contentRepo, tierRepo, subRepo, followRepo, entitlement, stats)
	return NewContentHandler(contentService)
}

func TestContentHandler_Get_LockedForAnonymous(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	handler := newContentHandler(db)
	creator, _ := testutil.TestCreator(t, db)
	tier := testutil.TestTier(t, db, creator.ID)
	content := testutil.TestContent(t, db, creator.ID, testutil.WithPremium(&tier.ID))

	router := gin.New()
	router.GET("/contents/:id", handler.Get)

	w := performRequest(router, "GET", fmt.Sprintf("/contents/%d", content.ID), nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var item dto.ContentItem
	raw, _ := json.Marshal(resp.Data)
	require.NoError(t, json.Unmarshal(raw, &item))

	assert.True(t, item.Locked)
	assert.Empty(t, item.FileURL)
	assert.Equal(t, content.Title, item.Title)
}

func TestContentHandler_Get_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	handler := newContentHandler(db)

	router := gin.New()
	router.GET("/contents/:id", handler.Get)

	w := performRequest(router, "GET", "/contents/9999", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestContentHandler_Publish_RequiresOwnTier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	handler := newContentHandler(db)
	creator, _ := testutil.TestCreator(t, db)
	other, _ := testutil.TestCreator(t, db)
	foreignTier := testutil.TestTier(t, db, other.ID)

	router := gin.New()
	router.POST("/contents", asUser(creator.ID), handler.Publish)

	w := performRequest(router, "POST", "/contents", dto.PublishContentRequest{
		Title:     "premium drop",
		IsPremium: true,
		TierID:    &foreignTier.ID,
	})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestContentHandler_ListByCreator_Paged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	handler := newContentHandler(db)
	creator, _ := testutil.TestCreator(t, db)
	for i := 0; i < 3; i++ {
		testutil.TestContent(t, db, creator.ID)
	}

	router := gin.New()
	router.GET("/creators/:id/contents", handler.ListByCreator)

	w := performRequest(router, "GET", fmt.Sprintf("/creators/%d/contents?page=1&page_size=2", creator.ID), nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	page, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 3, page["total"])
	items, ok := page["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
}
