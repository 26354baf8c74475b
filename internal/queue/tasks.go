package queue

import (
	"encoding/json"

	"github.com/nilecart/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmation 下单确认邮件任务
	TaskOrderConfirmation = constants.TaskOrderConfirmation
	// TaskOrderAdminNew 新订单后台通知任务
	TaskOrderAdminNew = constants.TaskOrderAdminNew
	// TaskOrderStatusUpdate 订单状态变更邮件任务
	TaskOrderStatusUpdate = constants.TaskOrderStatusUpdate
	// TaskUserWelcome 注册欢迎邮件任务
	TaskUserWelcome = constants.TaskUserWelcome
)

// OrderNotificationPayload 订单通知任务载荷
type OrderNotificationPayload struct {
	OrderID uint   `json:"order_id"`
	Locale  string `json:"locale,omitempty"`
}

// OrderStatusUpdatePayload 订单状态变更任务载荷
type OrderStatusUpdatePayload struct {
	OrderID    uint   `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// UserWelcomePayload 注册欢迎邮件载荷
type UserWelcomePayload struct {
	UserID uint   `json:"user_id"`
	Locale string `json:"locale,omitempty"`
}

// NewOrderConfirmationTask 创建下单确认任务
func NewOrderConfirmationTask(payload OrderNotificationPayload) (*asynq.Task, error) {
	return newJSONTask(TaskOrderConfirmation, payload)
}

// NewOrderAdminNewTask 创建新订单后台通知任务
func NewOrderAdminNewTask(payload OrderNotificationPayload) (*asynq.Task, error) {
	return newJSONTask(TaskOrderAdminNew, payload)
}

// NewOrderStatusUpdateTask 创建订单状态变更任务
func NewOrderStatusUpdateTask(payload OrderStatusUpdatePayload) (*asynq.Task, error) {
	return newJSONTask(TaskOrderStatusUpdate, payload)
}

// NewUserWelcomeTask 创建注册欢迎邮件任务
func NewUserWelcomeTask(payload UserWelcomePayload) (*asynq.Task, error) {
	return newJSONTask(TaskUserWelcome, payload)
}

func newJSONTask(taskType string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body), nil
}
