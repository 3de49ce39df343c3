package model

import (
	"time"
)

type Payment struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	SubscriptionID int64     `gorm:"not null;index" json:"subscription_id"`
	UserID         int64     `gorm:"not null;index" json:"user_id"`
	Amount         float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status         string    `gorm:"size:20;default:pending;index" json:"status"` // pending, completed, failed
	PaymentMethod  string    `gorm:"size:30" json:"payment_method,omitempty"`
	TransactionID  string    `gorm:"size:100;index" json:"transaction_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
