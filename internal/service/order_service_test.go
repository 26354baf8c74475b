package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nilecart/internal/constants"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/repository"
)

func (f *serviceFixture) placeTestOrder(t *testing.T, identity Identity, paymentMethod string) *models.Order {
	t.Helper()
	variant := f.createVariant(t, "order-"+identity.String(), "100", 10)
	if _, err := f.cart.AddItem(identity, variant.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order, err := f.checkout.PlaceOrder(context.Background(), identity, PlaceOrderInput{
		Shipping:      validShippingInfo(),
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	return order
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	f := newServiceFixture(t)
	order := f.placeTestOrder(t, SessionIdentity("status"), constants.PaymentMethodCreditCard)

	updated, err := f.orders.UpdateStatus(order.ID, constants.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != constants.OrderStatusProcessing {
		t.Fatalf("status want processing got %s", updated.Status)
	}
	if _, err := f.orders.UpdateStatus(order.ID, constants.OrderStatusDelivered); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("processing -> delivered should be rejected, got %v", err)
	}
	if _, err := f.orders.UpdateStatus(424242, constants.OrderStatusShipped); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order want not found, got %v", err)
	}
}

func TestOrderServiceUpdatePaymentStatus(t *testing.T) {
	f := newServiceFixture(t)
	order := f.placeTestOrder(t, SessionIdentity("pay"), constants.PaymentMethodCashOnDelivery)

	updated, err := f.orders.UpdatePaymentStatus(order.ID, constants.PaymentStatusPaid)
	if err != nil {
		t.Fatalf("update payment status failed: %v", err)
	}
	if updated.PaymentStatus != constants.PaymentStatusPaid || updated.Status != constants.OrderStatusProcessing {
		t.Fatalf("unexpected statuses %s/%s", updated.Status, updated.PaymentStatus)
	}
	if updated.Payment == nil || !updated.Payment.IsSuccess || updated.Payment.PaidAt == nil {
		t.Fatalf("payment record should be marked successful: %+v", updated.Payment)
	}
}

func TestOrderServiceQueries(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.createUser(t, "owner@example.com")
	other := f.createUser(t, "other@example.com")
	order := f.placeTestOrder(t, UserIdentity(owner.ID), constants.PaymentMethodPaypal)

	if _, err := f.orders.GetForUser(order.OrderNumber, owner.ID); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := f.orders.GetForUser(order.OrderNumber, other.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("other user must not see the order, got %v", err)
	}
	if _, err := f.orders.GetForGuest(order.OrderNumber, ""); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("user order must not be reachable as guest, got %v", err)
	}

	orders, total, err := f.orders.ListForUser(owner.ID, 1, 20)
	if err != nil || total != 1 || len(orders) != 1 {
		t.Fatalf("list for user want 1 got %d (%v)", total, err)
	}
	orders, total, err = f.orders.ListForAdmin(repository.OrderListFilter{Status: " PENDING ", Page: 1, PageSize: 20})
	if err != nil || total != 1 || orders[0].ID != order.ID {
		t.Fatalf("admin filter want the pending order, got %d (%v)", total, err)
	}
}
