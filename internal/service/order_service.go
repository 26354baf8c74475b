package service

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/nilecart/internal/constants"
	"github.com/nilecart/internal/logger"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/queue"
	"github.com/nilecart/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单查询与状态维护
type OrderService struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, paymentRepo repository.PaymentRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		queueClient: queueClient,
	}
}

// UpdateStatus 后台变更订单状态，迁移成功后按事件入队通知
func (s *OrderService) UpdateStatus(orderID uint, status string) (*models.Order, error) {
	var events []OrderEvent
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByID(orderID, true)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		next, emitted, err := TransitionOrderStatus(*order, status)
		if err != nil {
			return err
		}
		if len(emitted) == 0 {
			return nil
		}
		events = emitted
		return orderRepo.UpdateFields(order.ID, map[string]interface{}{
			"status":     next.Status,
			"updated_at": time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	for _, event := range events {
		logger.Infow("order_status_changed", "order_id", orderID, "from", event.From, "to", event.To)
	}
	s.enqueueStatusNotifications(orderID, events)
	return s.orderRepo.GetByID(orderID, false)
}

// UpdatePaymentStatus 后台变更支付状态，标记已付时同步支付记录
func (s *OrderService) UpdatePaymentStatus(orderID uint, status string) (*models.Order, error) {
	var events []OrderEvent
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)
		order, err := orderRepo.GetByID(orderID, true)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		next, emitted, err := TransitionPaymentStatus(*order, status)
		if err != nil {
			return err
		}
		if len(emitted) == 0 {
			return nil
		}
		events = emitted
		now := time.Now()
		if err := orderRepo.UpdateFields(order.ID, map[string]interface{}{
			"payment_status": next.PaymentStatus,
			"updated_at":     now,
		}); err != nil {
			return err
		}
		paymentUpdates := map[string]interface{}{"updated_at": now}
		switch next.PaymentStatus {
		case constants.PaymentStatusPaid:
			paymentUpdates["is_success"] = true
			paymentUpdates["paid_at"] = now
		case constants.PaymentStatusFailed:
			paymentUpdates["is_success"] = false
		}
		return paymentRepo.UpdateByOrderID(order.ID, paymentUpdates)
	})
	if err != nil {
		return nil, err
	}
	for _, event := range events {
		logger.Infow("order_payment_status_changed", "order_id", orderID, "from", event.From, "to", event.To)
	}
	return s.orderRepo.GetByID(orderID, false)
}

// GetForUser 用户查看自己的订单
func (s *OrderService) GetForUser(orderNumber string, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID == nil || *order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetForGuest 匿名订单凭访问令牌查看
func (s *OrderService) GetForGuest(orderNumber, accessToken string) (*models.Order, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != nil || order.AnonymousAccessToken == "" {
		return nil, ErrOrderNotFound
	}
	if subtle.ConstantTimeCompare([]byte(order.AnonymousAccessToken), []byte(accessToken)) != 1 {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListForUser 用户订单列表
func (s *OrderService) ListForUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(userID, page, pageSize)
}

// ListForAdmin 后台订单列表
func (s *OrderService) ListForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	filter.PaymentStatus = strings.ToLower(strings.TrimSpace(filter.PaymentStatus))
	return s.orderRepo.ListAdmin(filter)
}

// GetByID 按 ID 读取订单（通知任务使用）
func (s *OrderService) GetByID(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID, false)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// enqueueStatusNotifications 仅订单状态事件触发邮件，入队失败只记录
func (s *OrderService) enqueueStatusNotifications(orderID uint, events []OrderEvent) {
	if s.queueClient == nil {
		return
	}
	for _, event := range events {
		if event.Type != OrderEventStatusChanged {
			continue
		}
		err := s.queueClient.EnqueueOrderStatusUpdate(queue.OrderStatusUpdatePayload{
			OrderID:    orderID,
			FromStatus: event.From,
			ToStatus:   event.To,
		})
		if err != nil {
			logger.Warnw("order_enqueue_status_update_failed",
				"order_id", orderID,
				"to", event.To,
				"error", err,
			)
		}
	}
}
