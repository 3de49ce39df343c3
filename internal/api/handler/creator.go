package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NatanaelSou/TCC-Project/config"
	"github.com/NatanaelSou/TCC-Project/internal/api/middleware"
	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/response"
	"github.com/NatanaelSou/TCC-Project/internal/service"
)

type CreatorHandler struct {
	creatorService *service.CreatorService
	cfg            *config.Config
}

func NewCreatorHandler(creatorService *service.CreatorService, cfg *config.Config) *CreatorHandler {
	return &CreatorHandler{
		creatorService: creatorService,
		cfg:            cfg,
	}
}

// Become 开通创作者身份
// POST /api/v1/creators
func (h *CreatorHandler) Become(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.BecomeCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.creatorService.BecomeCreator(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyCreator):
			response.ConflictError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "创作者身份已开通", info)
}

// Get 获取创作者主页信息
// GET /api/v1/creators/:id
func (h *CreatorHandler) Get(c *gin.Context) {
	creatorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的创作者ID")
		return
	}

	info, err := h.creatorService.GetCreator(middleware.ViewerID(c), creatorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCreatorNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// Update 更新创作者资料
// PUT /api/v1/creators/me
func (h *CreatorHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.creatorService.UpdateCreator(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCreatorNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "资料已更新", info)
}

// Popular 获取热门创作者
// GET /api/v1/creators/popular?limit=10
func (h *CreatorHandler) Popular(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, err := h.creatorService.ListPopular(limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// ToggleFollow 关注/取关创作者
// POST /api/v1/creators/:id/follow
func (h *CreatorHandler) ToggleFollow(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	creatorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的创作者ID")
		return
	}

	resp, err := h.creatorService.ToggleFollow(c.Request.Context(), userID, creatorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCreatorNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrSelfFollow):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	if resp.Following {
		response.SuccessWithMessage(c, "关注成功", resp)
	} else {
		response.SuccessWithMessage(c, "已取消关注", resp)
	}
}

// Stats 获取创作者经营数据
// GET /api/v1/creators/me/stats
func (h *CreatorHandler) Stats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	stats, err := h.creatorService.GetStats(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCreatorNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, stats)
}

// UploadBanner 上传主页横幅
// POST /api/v1/creators/me/banner
func (h *CreatorHandler) UploadBanner(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	data, filename, ok := readImageFile(c, h.cfg)
	if !ok {
		return
	}

	url, err := h.creatorService.UploadBanner(userID, data, filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCreatorNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "上传失败")
		}
		return
	}

	response.SuccessWithMessage(c, "横幅已更新", gin.H{"url": url})
}
