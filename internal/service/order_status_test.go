package service

import (
	"errors"
	"testing"

	"github.com/nilecart/internal/constants"
	"github.com/nilecart/internal/models"
)

func TestTransitionOrderStatus(t *testing.T) {
	allowed := [][2]string{
		{constants.OrderStatusPending, constants.OrderStatusProcessing},
		{constants.OrderStatusPending, constants.OrderStatusCancelled},
		{constants.OrderStatusProcessing, constants.OrderStatusShipped},
		{constants.OrderStatusProcessing, constants.OrderStatusRefunded},
		{constants.OrderStatusShipped, constants.OrderStatusDelivered},
		{constants.OrderStatusShipped, constants.OrderStatusCancelled},
		{constants.OrderStatusDelivered, constants.OrderStatusRefunded},
	}
	for _, pair := range allowed {
		next, events, err := TransitionOrderStatus(models.Order{Status: pair[0]}, pair[1])
		if err != nil {
			t.Fatalf("%s -> %s should be allowed: %v", pair[0], pair[1], err)
		}
		if next.Status != pair[1] || len(events) != 1 {
			t.Fatalf("%s -> %s unexpected result %s %+v", pair[0], pair[1], next.Status, events)
		}
		if events[0] != (OrderEvent{Type: OrderEventStatusChanged, From: pair[0], To: pair[1]}) {
			t.Fatalf("unexpected event %+v", events[0])
		}
	}

	rejected := [][2]string{
		{constants.OrderStatusPending, constants.OrderStatusShipped},
		{constants.OrderStatusDelivered, constants.OrderStatusCancelled},
		{constants.OrderStatusCancelled, constants.OrderStatusProcessing},
		{constants.OrderStatusRefunded, constants.OrderStatusPending},
		{constants.OrderStatusPending, "teleported"},
	}
	for _, pair := range rejected {
		order := models.Order{Status: pair[0]}
		next, events, err := TransitionOrderStatus(order, pair[1])
		if !errors.Is(err, ErrOrderStatusInvalid) {
			t.Fatalf("%s -> %s should be rejected, got %v", pair[0], pair[1], err)
		}
		if next.Status != pair[0] || len(events) != 0 {
			t.Fatalf("rejected transition must not change the order")
		}
	}
}

func TestTransitionOrderStatusSameStatusIsNoop(t *testing.T) {
	order := models.Order{Status: constants.OrderStatusShipped}
	next, events, err := TransitionOrderStatus(order, " SHIPPED ")
	if err != nil || len(events) != 0 || next.Status != constants.OrderStatusShipped {
		t.Fatalf("same status should be a no-op, got %v %+v", err, events)
	}
}

func TestTransitionPaymentStatusIsIndependent(t *testing.T) {
	order := models.Order{Status: constants.OrderStatusProcessing, PaymentStatus: constants.PaymentStatusPending}
	next, events, err := TransitionPaymentStatus(order, constants.PaymentStatusPaid)
	if err != nil {
		t.Fatalf("pending -> paid failed: %v", err)
	}
	if next.Status != constants.OrderStatusProcessing || next.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("payment transition must not touch order status: %+v", next)
	}
	if len(events) != 1 || events[0].Type != OrderEventPaymentStatusChanged {
		t.Fatalf("unexpected events %+v", events)
	}
	if _, _, err := TransitionPaymentStatus(next, constants.PaymentStatusRefunded); err != nil {
		t.Fatalf("paid -> refunded failed: %v", err)
	}
	failed := models.Order{PaymentStatus: constants.PaymentStatusFailed}
	if _, _, err := TransitionPaymentStatus(failed, constants.PaymentStatusPaid); ReasonOf(err) != ReasonStatusInvalid {
		t.Fatalf("failed -> paid should be rejected, got %v", err)
	}
}
