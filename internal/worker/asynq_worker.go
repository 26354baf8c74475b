package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nilecart/internal/logger"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/provider"
	"github.com/nilecart/internal/queue"
	"github.com/nilecart/internal/repository"
	"github.com/nilecart/internal/service"

	"github.com/hibiken/asynq"
)

// Mailer 订单与账户通知邮件发送
type Mailer interface {
	SendOrderConfirmation(order *models.Order, locale string) error
	SendAdminNewOrder(order *models.Order) error
	SendOrderStatusUpdate(order *models.Order, from, to, locale string) error
	SendWelcome(user *models.User, locale string) error
}

// Consumer 异步任务消费者
type Consumer struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	mailer    Mailer
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{orderRepo: c.OrderRepo, userRepo: c.UserRepo}
	if c.EmailService != nil {
		consumer.mailer = c.EmailService
	}
	return consumer
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmation, c.handleOrderConfirmation)
	mux.HandleFunc(queue.TaskOrderAdminNew, c.handleOrderAdminNew)
	mux.HandleFunc(queue.TaskOrderStatusUpdate, c.handleOrderStatusUpdate)
	mux.HandleFunc(queue.TaskUserWelcome, c.handleUserWelcome)
}

func (c *Consumer) handleOrderConfirmation(_ context.Context, task *asynq.Task) error {
	var payload queue.OrderNotificationPayload
	if err := decodePayload(task, &payload); err != nil {
		logger.Warnw("worker_order_confirmation_unmarshal_failed", "error", err)
		return err
	}
	order, err := c.loadOrder(payload.OrderID)
	if err != nil || order == nil {
		return err
	}
	err = c.mailer.SendOrderConfirmation(order, payload.Locale)
	return c.settle("worker_order_confirmation", err, "order_id", order.ID, "order_number", order.OrderNumber)
}

func (c *Consumer) handleOrderAdminNew(_ context.Context, task *asynq.Task) error {
	var payload queue.OrderNotificationPayload
	if err := decodePayload(task, &payload); err != nil {
		logger.Warnw("worker_order_admin_new_unmarshal_failed", "error", err)
		return err
	}
	order, err := c.loadOrder(payload.OrderID)
	if err != nil || order == nil {
		return err
	}
	err = c.mailer.SendAdminNewOrder(order)
	return c.settle("worker_order_admin_new", err, "order_id", order.ID, "order_number", order.OrderNumber)
}

func (c *Consumer) handleOrderStatusUpdate(_ context.Context, task *asynq.Task) error {
	var payload queue.OrderStatusUpdatePayload
	if err := decodePayload(task, &payload); err != nil {
		logger.Warnw("worker_order_status_update_unmarshal_failed", "error", err)
		return err
	}
	order, err := c.loadOrder(payload.OrderID)
	if err != nil || order == nil {
		return err
	}
	err = c.mailer.SendOrderStatusUpdate(order, payload.FromStatus, payload.ToStatus, "")
	return c.settle("worker_order_status_update", err, "order_id", order.ID, "order_number", order.OrderNumber)
}

func (c *Consumer) handleUserWelcome(_ context.Context, task *asynq.Task) error {
	var payload queue.UserWelcomePayload
	if err := decodePayload(task, &payload); err != nil {
		logger.Warnw("worker_user_welcome_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 || c.mailer == nil {
		logger.Debugw("worker_user_welcome_skip", "user_id", payload.UserID, "mailer_nil", c.mailer == nil)
		return nil
	}
	user, err := c.userRepo.GetByID(payload.UserID)
	if err != nil {
		logger.Warnw("worker_user_welcome_fetch_user_failed", "user_id", payload.UserID, "error", err)
		return err
	}
	if user == nil {
		logger.Debugw("worker_user_welcome_skip_user_not_found", "user_id", payload.UserID)
		return nil
	}
	err = c.mailer.SendWelcome(user, payload.Locale)
	return c.settle("worker_user_welcome", err, "user_id", user.ID)
}

// loadOrder 订单或邮件服务缺失时返回 (nil, nil)，任务直接完成
func (c *Consumer) loadOrder(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		logger.Debugw("worker_order_notification_skip_invalid_payload", "order_id", orderID)
		return nil, nil
	}
	if c.mailer == nil {
		logger.Warnw("worker_order_notification_skip_mailer_nil", "order_id", orderID)
		return nil, nil
	}
	order, err := c.orderRepo.GetByID(orderID, false)
	if err != nil {
		logger.Warnw("worker_order_notification_fetch_order_failed", "order_id", orderID, "error", err)
		return nil, err
	}
	if order == nil {
		logger.Debugw("worker_order_notification_skip_order_not_found", "order_id", orderID)
		return nil, nil
	}
	return order, nil
}

// settle 配置类错误不重试，其余错误交给 asynq 重试
func (c *Consumer) settle(event string, err error, kv ...interface{}) error {
	switch {
	case err == nil:
		logger.Infow(event+"_sent", kv...)
		return nil
	case errors.Is(err, service.ErrEmailServiceDisabled):
		logger.Infow(event+"_skip_email_disabled", kv...)
		return nil
	case errors.Is(err, service.ErrEmailServiceNotConfigured),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrEmailRecipientRejected):
		logger.Warnw(event+"_skip_undeliverable", append(kv, "error", err)...)
		return nil
	default:
		logger.Warnw(event+"_send_failed", append(kv, "error", err)...)
		return err
	}
}

func decodePayload(task *asynq.Task, dest interface{}) error {
	if task == nil {
		return fmt.Errorf("task is nil: %w", asynq.SkipRetry)
	}
	if err := json.Unmarshal(task.Payload(), dest); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return nil
}
