package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NatanaelSou/TCC-Project/internal/api/middleware"
	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/response"
	"github.com/NatanaelSou/TCC-Project/internal/service"
)

type SubscriptionHandler struct {
	subService *service.SubscriptionService
}

func NewSubscriptionHandler(subService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subService: subService,
	}
}

// Subscribe 订阅档位
// POST /api/v1/subscriptions
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	autoRenew := true
	if req.AutoRenew != nil {
		autoRenew = *req.AutoRenew
	}

	item, err := h.subService.Subscribe(c.Request.Context(), userID, req.TierID, autoRenew)
	if err != nil {
		h.writeSubscribeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "订阅成功", item)
}

// Cancel 取消订阅
// POST /api/v1/subscriptions/:id/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	h.transition(c, h.subService.Cancel, "订阅已取消")
}

// Pause 暂停订阅
// POST /api/v1/subscriptions/:id/pause
func (h *SubscriptionHandler) Pause(c *gin.Context) {
	h.transition(c, h.subService.Pause, "订阅已暂停")
}

// Resume 恢复暂停中的订阅
// POST /api/v1/subscriptions/:id/resume
func (h *SubscriptionHandler) Resume(c *gin.Context) {
	h.transition(c, h.subService.Resume, "订阅已恢复")
}

// Reactivate 重新激活已取消/过期的订阅
// POST /api/v1/subscriptions/:id/reactivate
func (h *SubscriptionHandler) Reactivate(c *gin.Context) {
	h.transition(c, h.subService.Reactivate, "订阅已重新激活")
}

// List 获取当前用户的订阅列表
// GET /api/v1/subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.subService.ListByUser(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Subscribers 获取当前创作者的订阅者列表
// GET /api/v1/subscriptions/subscribers
func (h *SubscriptionHandler) Subscribers(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.subService.ListSubscribers(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

type transitionFunc func(ctx context.Context, subID, userID int64) (*dto.SubscriptionItem, error)

func (h *SubscriptionHandler) transition(c *gin.Context, fn transitionFunc, message string) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订阅ID")
		return
	}

	item, err := fn(c.Request.Context(), subID, userID)
	if err != nil {
		h.writeSubscribeError(c, err)
		return
	}

	response.SuccessWithMessage(c, message, item)
}

// writeSubscribeError 订阅相关错误到响应码的统一映射
func (h *SubscriptionHandler) writeSubscribeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTierNotFound), errors.Is(err, service.ErrSubscriptionNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrTierInactive), errors.Is(err, service.ErrSelfSubscribe), errors.Is(err, service.ErrInvalidTransition):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrAlreadySubscribed), errors.Is(err, service.ErrTierFull):
		response.ConflictError(c, err.Error())
	case errors.Is(err, service.ErrSubscriptionNotOwned):
		response.PermissionError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
