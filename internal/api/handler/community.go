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

type CommunityHandler struct {
	communityService *service.CommunityService
}

func NewCommunityHandler(communityService *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
	}
}

// CreateChannel 创建社区频道
// POST /api/v1/channels
func (h *CommunityHandler) CreateChannel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.communityService.CreateChannel(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotCreator):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "频道创建成功", item)
}

// ListChannels 获取对当前用户可见的频道列表
// GET /api/v1/channels
func (h *CommunityHandler) ListChannels(c *gin.Context) {
	items, err := h.communityService.ListChannels(middleware.ViewerID(c))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Join 加入频道，重复加入幂等
// POST /api/v1/channels/:id/join
func (h *CommunityHandler) Join(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的频道ID")
		return
	}

	resp, err := h.communityService.Join(c.Request.Context(), userID, channelID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChannelNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrChannelGated), errors.Is(err, service.ErrAccessDenied):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	if resp.Joined {
		response.SuccessWithMessage(c, "已加入频道", resp)
	} else {
		response.SuccessWithMessage(c, "已在频道中", resp)
	}
}

// SendMessage 在聊天频道发送消息
// POST /api/v1/channels/:id/messages
func (h *CommunityHandler) SendMessage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的频道ID")
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.communityService.SendMessage(userID, channelID, &req)
	if err != nil {
		h.writeChannelError(c, err)
		return
	}

	response.Success(c, item)
}

// ListMessages 获取频道消息（按时间倒序，最近 50 条）
// GET /api/v1/channels/:id/messages
func (h *CommunityHandler) ListMessages(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的频道ID")
		return
	}

	items, err := h.communityService.ListMessages(middleware.ViewerID(c), channelID)
	if err != nil {
		h.writeChannelError(c, err)
		return
	}

	response.Success(c, items)
}

// CreateMuralPost 在墙频道发帖或回复
// POST /api/v1/channels/:id/posts
func (h *CommunityHandler) CreateMuralPost(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的频道ID")
		return
	}

	var req dto.CreateMuralPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.communityService.CreateMuralPost(userID, channelID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMuralPostNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrMuralParentInvalid):
			response.ParamError(c, err.Error())
		default:
			h.writeChannelError(c, err)
		}
		return
	}

	response.Success(c, item)
}

// ListMuralPosts 获取墙频道的帖子列表（含一层回复）
// GET /api/v1/channels/:id/posts
func (h *CommunityHandler) ListMuralPosts(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的频道ID")
		return
	}

	items, err := h.communityService.ListMuralPosts(middleware.ViewerID(c), channelID)
	if err != nil {
		h.writeChannelError(c, err)
		return
	}

	response.Success(c, items)
}

// writeChannelError 频道操作的公共错误映射
func (h *CommunityHandler) writeChannelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrChannelNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrNotChannelMember), errors.Is(err, service.ErrChannelGated),
		errors.Is(err, service.ErrAccessDenied), errors.Is(err, service.ErrTierNotHeld):
		response.PermissionError(c, err.Error())
	case errors.Is(err, service.ErrWrongChannelType):
		response.ParamError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
