package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/config"
	"github.com/NatanaelSou/TCC-Project/internal/model"
	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
)

var (
	ErrPaymentNotFound    = errors.New("支付记录不存在")
	ErrPaymentNotPending  = errors.New("支付记录已处理")
	ErrInvalidWebhookSign = errors.New("回调签名无效")
)

// PaymentService 支付协调层。网关协议细节不在这里：
// 发起支付只生成 pending 的订阅 + 支付记录和交易号，
// 网关异步回调（HMAC 签名校验）后才确认或失败。
type PaymentService struct {
	db          *gorm.DB
	paymentRepo *repository.PaymentRepository
	tierRepo    *repository.TierRepository
	subRepo     *repository.SubscriptionRepository
	subService  *SubscriptionService
	stats       *StatsService
	cfg         *config.Config
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo *repository.PaymentRepository,
	tierRepo *repository.TierRepository,
	subRepo *repository.SubscriptionRepository,
	subService *SubscriptionService,
	stats *StatsService,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		tierRepo:    tierRepo,
		subRepo:     subRepo,
		subService:  subService,
		stats:       stats,
		cfg:         cfg,
	}
}

// CreateCheckout 发起订阅支付。订阅以 pending 状态落库，
// 不占容量也不计入计数器，等回调确认后才激活。
func (s *PaymentService) CreateCheckout(userID int64, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	tier, err := s.tierRepo.GetByID(req.TierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, err
	}
	if !tier.IsActive {
		return nil, ErrTierNotFound
	}
	if tier.CreatorID == userID {
		return nil, ErrSelfSubscribe
	}

	exists, err := s.subRepo.ExistsActive(userID, req.TierID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySubscribed
	}

	transactionID, err := generateTransactionID()
	if err != nil {
		return nil, err
	}

	var sub *model.Subscription
	var payment *model.Payment
	err = s.db.Transaction(func(tx *gorm.DB) error {
		sub = &model.Subscription{
			UserID:    userID,
			CreatorID: tier.CreatorID,
			TierID:    req.TierID,
			Status:    "pending",
			StartDate: time.Now(),
			AutoRenew: true,
		}
		if err := s.subRepo.WithTx(tx).Create(sub); err != nil {
			return err
		}

		payment = &model.Payment{
			SubscriptionID: sub.ID,
			UserID:         userID,
			Amount:         tier.Price,
			Status:         "pending",
			PaymentMethod:  req.PaymentMethod,
			TransactionID:  transactionID,
		}
		return s.paymentRepo.WithTx(tx).Create(payment)
	})
	if err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		PaymentID:      payment.ID,
		SubscriptionID: sub.ID,
		Amount:         payment.Amount,
		TransactionID:  transactionID,
		Status:         "pending",
	}, nil
}

// HandleWebhook 处理网关回调。签名无效直接拒绝；
// completed 时激活订阅（容量/重复在激活事务内重查）并累计收益，
// failed 时仅标记支付失败，pending 订阅留待重试或取消。
func (s *PaymentService) HandleWebhook(ctx context.Context, req *dto.WebhookRequest, signature string) (*dto.PaymentItem, error) {
	if !s.verifySignature(req.TransactionID, req.Status, signature) {
		return nil, ErrInvalidWebhookSign
	}

	payment, err := s.paymentRepo.GetByTransactionID(req.TransactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	// 回调可能重放，已处理的直接拒绝
	if payment.Status != "pending" {
		return nil, ErrPaymentNotPending
	}

	if req.Status == "failed" {
		if err := s.paymentRepo.UpdateStatus(payment.ID, "failed"); err != nil {
			return nil, err
		}
		payment.Status = "failed"
		return buildPaymentItem(payment), nil
	}

	sub, err := s.subService.ConfirmPayment(ctx, payment.SubscriptionID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.WithTx(tx).UpdateStatus(payment.ID, "completed"); err != nil {
			return err
		}
		// 平台抽成后的净额计入创作者收益
		net := payment.Amount * (1 - s.cfg.Payment.PlatformFee)
		return s.stats.ApplyEarnings(tx, sub.CreatorID, net)
	})
	if err != nil {
		return nil, err
	}
	payment.Status = "completed"

	return buildPaymentItem(payment), nil
}

// ListByUser 用户支付历史
func (s *PaymentService) ListByUser(userID int64) ([]*dto.PaymentItem, error) {
	payments, err := s.paymentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentItem, 0, len(payments))
	for _, payment := range payments {
		items = append(items, buildPaymentItem(payment))
	}
	return items, nil
}

// Sign 计算回调签名，测试和网关模拟共用
func (s *PaymentService) Sign(transactionID, status string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.Payment.WebhookSecret))
	mac.Write([]byte(transactionID + ":" + status))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *PaymentService) verifySignature(transactionID, status, signature string) bool {
	expected := s.Sign(transactionID, status)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func generateTransactionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "txn_" + hex.EncodeToString(buf), nil
}

func buildPaymentItem(payment *model.Payment) *dto.PaymentItem {
	return &dto.PaymentItem{
		ID:             payment.ID,
		SubscriptionID: payment.SubscriptionID,
		Amount:         payment.Amount,
		Status:         payment.Status,
		PaymentMethod:  payment.PaymentMethod,
		TransactionID:  payment.TransactionID,
		CreatedAt:      payment.CreatedAt.Format(time.RFC3339),
	}
}
