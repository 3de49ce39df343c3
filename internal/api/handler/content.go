package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NatanaelSou/TCC-Project/internal/api/middleware"
	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/response"
	"github.com/NatanaelSou/TCC-Project/internal/service"
)

type ContentHandler struct {
	contentService *service.ContentService
}

func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
	}
}

// Publish 发布内容
// POST /api/v1/contents
func (h *ContentHandler) Publish(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.PublishContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.contentService.Publish(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTierNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrTierNotOwnedBy):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "发布成功", item)
}

// Get 获取内容详情。未解锁的付费内容返回 locked 视图而非报错。
// GET /api/v1/contents/:id
func (h *ContentHandler) Get(c *gin.Context) {
	contentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的内容ID")
		return
	}

	item, err := h.contentService.Get(middleware.ViewerID(c), contentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContentNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, item)
}

// ListByCreator 获取创作者的内容列表
// GET /api/v1/creators/:id/contents
func (h *ContentHandler) ListByCreator(c *gin.Context) {
	creatorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的创作者ID")
		return
	}

	var query dto.ContentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	items, total, err := h.contentService.ListByCreator(middleware.ViewerID(c), creatorID, &query)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, query.Page, query.PageSize, items)
}

// Feed 获取关注+订阅创作者的内容流
// GET /api/v1/contents/feed
func (h *ContentHandler) Feed(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var query dto.ContentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	items, total, err := h.contentService.Feed(userID, &query)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, query.Page, query.PageSize, items)
}

// Update 更新内容
// PUT /api/v1/contents/:id
func (h *ContentHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	contentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的内容ID")
		return
	}

	var req dto.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.contentService.Update(contentID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrContentNotOwned):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrTierNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrTierNotOwnedBy):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "内容已更新", item)
}

// Delete 删除内容
// DELETE /api/v1/contents/:id
func (h *ContentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	contentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的内容ID")
		return
	}

	if err := h.contentService.Delete(contentID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrContentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrContentNotOwned):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "内容已删除", nil)
}
