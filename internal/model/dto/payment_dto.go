package dto

// CheckoutRequest 发起支付请求
type CheckoutRequest struct {
	TierID        int64  `json:"tier_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=card pix boleto"`
}

// CheckoutResponse 发起支付响应。订阅处于 pending，等待回调确认。
type CheckoutResponse struct {
	PaymentID      int64   `json:"payment_id"`
	SubscriptionID int64   `json:"subscription_id"`
	Amount         float64 `json:"amount"`
	TransactionID  string  `json:"transaction_id"`
	Status         string  `json:"status"`
}

// WebhookRequest 支付网关回调
type WebhookRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	Status        string `json:"status" binding:"required,oneof=completed failed"`
}

// PaymentItem 支付记录（返回给前端）
type PaymentItem struct {
	ID             int64   `json:"id"`
	SubscriptionID int64   `json:"subscription_id"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
	PaymentMethod  string  `json:"payment_method,omitempty"`
	TransactionID  string  `json:"transaction_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}
