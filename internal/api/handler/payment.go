package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/NatanaelSou/TCC-Project/internal/api/middleware"
	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/response"
	"github.com/NatanaelSou/TCC-Project/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Checkout 发起支付，创建 pending 订阅和支付单
// POST /api/v1/payments/checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.paymentService.CreateCheckout(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTierNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrTierInactive), errors.Is(err, service.ErrSelfSubscribe):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrAlreadySubscribed):
			response.ConflictError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "支付单已创建", resp)
}

// Webhook 支付网关回调，校验 X-Signature 签名。重复回调会被拒绝。
// POST /api/v1/payments/webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req dto.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	signature := c.GetHeader("X-Signature")
	if signature == "" {
		response.AuthError(c, "缺少签名")
		return
	}

	item, err := h.paymentService.HandleWebhook(c.Request.Context(), &req, signature)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidWebhookSign):
			response.AuthError(c, err.Error())
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPaymentNotPending):
			response.ConflictError(c, err.Error())
		case errors.Is(err, service.ErrTierFull), errors.Is(err, service.ErrAlreadySubscribed):
			response.ConflictError(c, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			response.ConflictError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, item)
}

// History 获取当前用户的支付记录
// GET /api/v1/payments
func (h *PaymentHandler) History(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.paymentService.ListByUser(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}
