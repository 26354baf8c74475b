package service

import (
	"strings"

	"github.com/nilecart/internal/constants"
	"github.com/nilecart/internal/models"
)

// 订单事件类型
const (
	OrderEventStatusChanged        = "status_changed"
	OrderEventPaymentStatusChanged = "payment_status_changed"
)

// OrderEvent 状态迁移产生的通知事件
type OrderEvent struct {
	Type string `json:"type"`
	From string `json:"from"`
	To   string `json:"to"`
}

var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
		constants.OrderStatusRefunded:   true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
		constants.OrderStatusRefunded:  true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
		constants.OrderStatusCancelled: true,
		constants.OrderStatusRefunded:  true,
	},
	constants.OrderStatusDelivered: {
		constants.OrderStatusRefunded: true,
	},
	constants.OrderStatusCancelled: {},
	constants.OrderStatusRefunded:  {},
}

var allowedPaymentTransitions = map[string]map[string]bool{
	constants.PaymentStatusPending: {
		constants.PaymentStatusPaid:   true,
		constants.PaymentStatusFailed: true,
	},
	constants.PaymentStatusPaid: {
		constants.PaymentStatusRefunded: true,
	},
	constants.PaymentStatusFailed:   {},
	constants.PaymentStatusRefunded: {},
}

// IsValidOrderStatus 是否为已知订单状态
func IsValidOrderStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

// IsValidPaymentStatus 是否为已知支付状态
func IsValidPaymentStatus(status string) bool {
	_, ok := allowedPaymentTransitions[status]
	return ok
}

// TransitionOrderStatus 纯函数：校验迁移并返回新订单与待发送事件，同状态为空操作
func TransitionOrderStatus(order models.Order, newStatus string) (models.Order, []OrderEvent, error) {
	target := strings.ToLower(strings.TrimSpace(newStatus))
	if !IsValidOrderStatus(target) {
		return order, nil, ErrOrderStatusInvalid
	}
	if order.Status == target {
		return order, nil, nil
	}
	if !allowedTransitions[order.Status][target] {
		return order, nil, ErrOrderStatusInvalid
	}
	event := OrderEvent{Type: OrderEventStatusChanged, From: order.Status, To: target}
	order.Status = target
	return order, []OrderEvent{event}, nil
}

// TransitionPaymentStatus 纯函数：支付状态迁移，与订单状态相互独立
func TransitionPaymentStatus(order models.Order, newStatus string) (models.Order, []OrderEvent, error) {
	target := strings.ToLower(strings.TrimSpace(newStatus))
	if !IsValidPaymentStatus(target) {
		return order, nil, &ValidationError{Code: ReasonStatusInvalid, Field: "payment_status"}
	}
	if order.PaymentStatus == target {
		return order, nil, nil
	}
	if !allowedPaymentTransitions[order.PaymentStatus][target] {
		return order, nil, &ValidationError{Code: ReasonStatusInvalid, Field: "payment_status"}
	}
	event := OrderEvent{Type: OrderEventPaymentStatusChanged, From: order.PaymentStatus, To: target}
	order.PaymentStatus = target
	return order, []OrderEvent{event}, nil
}
