package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/repository"

	"github.com/shopspring/decimal"
)

func TestAddItemToEmptyCart(t *testing.T) {
	f := newServiceFixture(t)
	variant := f.createVariant(t, "linen-shirt", "120.50", 5)
	identity := SessionIdentity("token-a")

	cart, err := f.cart.AddItem(identity, variant.ID, 2)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if cart.TotalItems != 2 {
		t.Fatalf("total_items want 2 got %d", cart.TotalItems)
	}
	if !cart.TotalPrice.Equal(decimal.RequireFromString("241")) {
		t.Fatalf("total_price want 241.00 got %s", cart.TotalPrice.StringFixed(2))
	}
	f.assertCartTotals(t, identity)
}

func TestPaddedSessionTokenSharesCart(t *testing.T) {
	f := newServiceFixture(t)
	variant := f.createVariant(t, "sandal", "75", 5)

	if _, err := f.cart.AddItem(Identity{SessionToken: "  padded-token "}, variant.ID, 1); err != nil {
		t.Fatalf("add with padded token failed: %v", err)
	}
	if _, err := f.cart.AddItem(Identity{SessionToken: "padded-token"}, variant.ID, 1); err != nil {
		t.Fatalf("add with trimmed token failed: %v", err)
	}
	var carts []models.Cart
	if err := f.db.Find(&carts).Error; err != nil {
		t.Fatalf("list carts failed: %v", err)
	}
	if len(carts) != 1 || carts[0].SessionToken == nil || *carts[0].SessionToken != "padded-token" || carts[0].TotalItems != 2 {
		t.Fatalf("padded and trimmed tokens should share one cart, got %+v", carts)
	}
}

func TestAddItemRejectsBadInput(t *testing.T) {
	f := newServiceFixture(t)
	variant := f.createVariant(t, "cap", "40", 5)

	if _, err := f.cart.AddItem(SessionIdentity("t"), variant.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("zero quantity want invalid quantity, got %v", err)
	}
	if _, err := f.cart.AddItem(Identity{}, variant.ID, 1); !errors.Is(err, ErrIdentityInvalid) {
		t.Fatalf("empty identity want identity invalid, got %v", err)
	}
	if _, err := f.cart.AddItem(Identity{UserID: 1, SessionToken: "t"}, variant.ID, 1); !errors.Is(err, ErrIdentityInvalid) {
		t.Fatalf("double identity want identity invalid, got %v", err)
	}
	if _, err := f.cart.AddItem(SessionIdentity("t"), 9999, 1); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("missing variant want variant not found, got %v", err)
	}
}

func TestAddItemNeverExceedsStock(t *testing.T) {
	f := newServiceFixture(t)
	variant := f.createVariant(t, "scarf", "75", 5)
	identity := UserIdentity(f.createUser(t, "a@example.com").ID)

	if _, err := f.cart.AddItem(identity, variant.ID, 4); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	_, err := f.cart.AddItem(identity, variant.ID, 2)
	var stockErr *StockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("want stock error, got %v", err)
	}
	if stockErr.Available != 1 {
		t.Fatalf("available want 1 got %d", stockErr.Available)
	}
	if ReasonOf(err) != ReasonOutOfStock {
		t.Fatalf("reason want %s got %s", ReasonOutOfStock, ReasonOf(err))
	}

	cart, err := f.cart.AddItem(identity, variant.ID, 1)
	if err != nil {
		t.Fatalf("add up to stock failed: %v", err)
	}
	if cart.TotalItems != 5 {
		t.Fatalf("total_items want 5 got %d", cart.TotalItems)
	}
	f.assertCartTotals(t, identity)
}

func TestConcurrentAddItemRespectsStock(t *testing.T) {
	f := newServiceFixture(t)
	variant := f.createVariant(t, "boots", "900", 5)
	identity := SessionIdentity("shared-token")
	if _, err := f.cart.GetOrCreateCart(identity); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.cart.AddItem(identity, variant.ID, 3)
		}(i)
	}
	wg.Wait()

	succeeded, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrOutOfStock):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("want one success and one out of stock, got %d/%d", succeeded, rejected)
	}
	view, err := f.cart.ViewCart(identity, Destination{})
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if view.TotalItems != 3 {
		t.Fatalf("combined quantity want 3 got %d", view.TotalItems)
	}
}

func TestCartTotalsInvariantAcrossMutations(t *testing.T) {
	f := newServiceFixture(t)
	shirt := f.createVariant(t, "shirt", "99.99", 10)
	jeans := f.createVariant(t, "jeans", "250", 3)
	if err := f.db.Model(&models.Product{}).Where("id = ?", jeans.ProductID).
		Updates(map[string]interface{}{"is_on_sale": true, "sale_price": models.MustMoney("199.5")}).Error; err != nil {
		t.Fatalf("set sale price failed: %v", err)
	}
	identity := SessionIdentity("invariant")

	steps := []func() error{
		func() error { _, err := f.cart.AddItem(identity, shirt.ID, 3); return err },
		func() error { _, err := f.cart.AddItem(identity, jeans.ID, 2); return err },
		func() error { _, err := f.cart.AddItem(identity, shirt.ID, 1); return err },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		f.assertCartTotals(t, identity)
	}

	view, err := f.cart.ViewCart(identity, Destination{})
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	var shirtItem, jeansItem uint
	for _, line := range view.Items {
		if line.VariantID == shirt.ID {
			shirtItem = line.ItemID
		}
		if line.VariantID == jeans.ID {
			jeansItem = line.ItemID
			if !line.UnitPrice.Equal(decimal.RequireFromString("199.5")) {
				t.Fatalf("sale price should apply, got %s", line.UnitPrice.StringFixed(2))
			}
		}
	}

	if _, _, err := f.cart.SetItemQuantity(identity, shirtItem, 2); err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	f.assertCartTotals(t, identity)
	if _, err := f.cart.RemoveItem(identity, jeansItem); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	f.assertCartTotals(t, identity)

	cart, err := f.cart.GetOrCreateCart(identity)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if cart.TotalItems != 2 || !cart.TotalPrice.Equal(decimal.RequireFromString("199.98")) {
		t.Fatalf("unexpected totals %d / %s", cart.TotalItems, cart.TotalPrice.StringFixed(2))
	}
}

func TestSetItemQuantityClampsToStock(t *testing.T) {
	f := newServiceFixture(t)
	variant := f.createVariant(t, "belt", "60", 4)
	identity := SessionIdentity("clamp")
	if _, err := f.cart.AddItem(identity, variant.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	view, _ := f.cart.ViewCart(identity, Destination{})
	itemID := view.Items[0].ItemID

	cart, adjustment, err := f.cart.SetItemQuantity(identity, itemID, 9)
	if err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if adjustment == nil || adjustment.Before != 9 || adjustment.After != 4 {
		t.Fatalf("unexpected adjustment %+v", adjustment)
	}
	if cart.TotalItems != 4 {
		t.Fatalf("total_items want 4 got %d", cart.TotalItems)
	}

	if _, _, err := f.cart.SetItemQuantity(identity, 424242, 1); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("unknown item want item not found, got %v", err)
	}

	cart, _, err = f.cart.SetItemQuantity(identity, itemID, 0)
	if err != nil {
		t.Fatalf("set zero failed: %v", err)
	}
	if cart.TotalItems != 0 {
		t.Fatalf("zero quantity should remove the item, total_items %d", cart.TotalItems)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	a := f.createVariant(t, "sock", "15", 10)
	b := f.createVariant(t, "hat", "35", 10)
	identity := SessionIdentity("idem")
	if _, err := f.cart.AddItem(identity, a.ID, 2); err != nil {
		t.Fatalf("add a failed: %v", err)
	}
	if _, err := f.cart.AddItem(identity, b.ID, 1); err != nil {
		t.Fatalf("add b failed: %v", err)
	}
	view, _ := f.cart.ViewCart(identity, Destination{})
	var target uint
	for _, line := range view.Items {
		if line.VariantID == a.ID {
			target = line.ItemID
		}
	}

	first, err := f.cart.RemoveItem(identity, target)
	if err != nil {
		t.Fatalf("first remove failed: %v", err)
	}
	second, err := f.cart.RemoveItem(identity, target)
	if err != nil {
		t.Fatalf("second remove failed: %v", err)
	}
	if first.TotalItems != second.TotalItems || !first.TotalPrice.Equal(second.TotalPrice.Decimal) {
		t.Fatalf("second remove changed state: %d/%s vs %d/%s",
			first.TotalItems, first.TotalPrice.StringFixed(2), second.TotalItems, second.TotalPrice.StringFixed(2))
	}
	if second.TotalItems != 1 {
		t.Fatalf("total_items want 1 got %d", second.TotalItems)
	}

	empty, err := f.cart.RemoveItem(SessionIdentity("no-cart-yet"), 1)
	if err != nil || empty.ID != 0 {
		t.Fatalf("remove without cart should be a no-op, got %+v %v", empty, err)
	}
}

func TestViewCartReconcilesStock(t *testing.T) {
	f := newServiceFixture(t)
	gone := f.createVariant(t, "gone", "100", 3)
	low := f.createVariant(t, "low", "50", 5)
	identity := SessionIdentity("reconcile")
	if _, err := f.cart.AddItem(identity, gone.ID, 2); err != nil {
		t.Fatalf("add gone failed: %v", err)
	}
	if _, err := f.cart.AddItem(identity, low.ID, 4); err != nil {
		t.Fatalf("add low failed: %v", err)
	}
	f.setStock(t, gone.ID, 0)
	f.setStock(t, low.ID, 2)

	view, err := f.cart.ViewCart(identity, Destination{})
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if len(view.Adjustments) != 2 {
		t.Fatalf("want 2 adjustments got %+v", view.Adjustments)
	}
	for _, adj := range view.Adjustments {
		if adj.VariantID == gone.ID && !adj.Removed {
			t.Fatalf("zero stock item should be removed: %+v", adj)
		}
		if adj.VariantID == low.ID && (adj.Removed || adj.After != 2) {
			t.Fatalf("low stock item should be clamped to 2: %+v", adj)
		}
	}
	if len(view.Items) != 1 || view.TotalItems != 2 {
		t.Fatalf("unexpected view after reconcile: %+v", view)
	}
	if view.Shipping.Message != ShippingMessageEstimate || !view.Shipping.Cost.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unknown destination should be an estimate at metro rate, got %+v", view.Shipping)
	}
	if !view.GrandTotal.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("grand total want 150 got %s", view.GrandTotal.StringFixed(2))
	}
	f.assertCartTotals(t, identity)
}

func TestViewCartUsesDefaultAddress(t *testing.T) {
	f := newServiceFixture(t)
	user := f.createUser(t, "addr@example.com")
	variant := f.createVariant(t, "coat", "300", 5)
	address := &models.ShippingAddress{
		UserID: user.ID, FirstName: "A", LastName: "B", AddressLine1: "x",
		City: "Luxor", Country: "EG", IsDefault: true,
	}
	if err := f.db.Create(address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	identity := UserIdentity(user.ID)
	if _, err := f.cart.AddItem(identity, variant.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	view, err := f.cart.ViewCart(identity, Destination{})
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if view.Shipping.Message != ShippingMessageNone || !view.Shipping.Cost.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("default non-metro address should use domestic rate, got %+v", view.Shipping)
	}
}

func TestMergeIntoUserCartCapsToStock(t *testing.T) {
	f := newServiceFixture(t)
	user := f.createUser(t, "merge@example.com")
	shared := f.createVariant(t, "dress", "400", 4)
	extra := f.createVariant(t, "bag", "220", 6)
	userIdentity := UserIdentity(user.ID)
	sessionIdentity := SessionIdentity("anon-merge")

	if _, err := f.cart.AddItem(userIdentity, shared.ID, 2); err != nil {
		t.Fatalf("seed user cart failed: %v", err)
	}
	if _, err := f.cart.AddItem(sessionIdentity, shared.ID, 1); err != nil {
		t.Fatalf("seed session cart failed: %v", err)
	}
	if _, err := f.cart.AddItem(sessionIdentity, extra.ID, 2); err != nil {
		t.Fatalf("seed session extra failed: %v", err)
	}
	adjustments, err := f.cart.MergeIntoUserCart(context.Background(), "anon-merge", user.ID)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if len(adjustments) != 0 {
		t.Fatalf("2+1 fits in stock 4, want no adjustments, got %+v", adjustments)
	}

	items := f.userCartItems(t, user.ID)
	if items[shared.ID] != 3 || items[extra.ID] != 2 {
		t.Fatalf("unexpected merged quantities %+v", items)
	}
	session, err := repository.NewCartRepository(f.db).FindBySessionToken("anon-merge", false)
	if err != nil || session != nil {
		t.Fatalf("session cart should be deleted, got %+v %v", session, err)
	}
	f.assertCartTotals(t, userIdentity)

	again, err := f.cart.MergeIntoUserCart(context.Background(), "anon-merge", user.ID)
	if err != nil || len(again) != 0 {
		t.Fatalf("replayed merge should be a no-op, got %+v %v", again, err)
	}
	if replay := f.userCartItems(t, user.ID); replay[shared.ID] != 3 || replay[extra.ID] != 2 {
		t.Fatalf("replay changed quantities %+v", replay)
	}
}

func TestMergeIntoUserCartReportsTruncation(t *testing.T) {
	f := newServiceFixture(t)
	user := f.createUser(t, "trunc@example.com")
	variant := f.createVariant(t, "vest", "80", 5)
	if _, err := f.cart.AddItem(UserIdentity(user.ID), variant.ID, 3); err != nil {
		t.Fatalf("seed user cart failed: %v", err)
	}
	if _, err := f.cart.AddItem(SessionIdentity("trunc"), variant.ID, 2); err != nil {
		t.Fatalf("seed session cart failed: %v", err)
	}
	f.setStock(t, variant.ID, 4)

	adjustments, err := f.cart.MergeIntoUserCart(context.Background(), "trunc", user.ID)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if len(adjustments) != 1 || adjustments[0].Before != 5 || adjustments[0].After != 4 {
		t.Fatalf("unexpected adjustments %+v", adjustments)
	}
	if items := f.userCartItems(t, user.ID); items[variant.ID] != 4 {
		t.Fatalf("merged quantity want 4 got %d", items[variant.ID])
	}
}

func TestBuyNowReplacesCart(t *testing.T) {
	f := newServiceFixture(t)
	a := f.createVariant(t, "ring", "500", 3)
	b := f.createVariant(t, "chain", "700", 3)
	identity := SessionIdentity("buy-now")
	if _, err := f.cart.AddItem(identity, a.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	cart, err := f.cart.BuyNow(identity, b.ID)
	if err != nil {
		t.Fatalf("buy now failed: %v", err)
	}
	if cart.TotalItems != 1 || !cart.TotalPrice.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("unexpected cart %d / %s", cart.TotalItems, cart.TotalPrice.StringFixed(2))
	}

	f.setStock(t, a.ID, 0)
	if _, err := f.cart.BuyNow(identity, a.ID); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("buy now without stock want out of stock, got %v", err)
	}
}

func TestCountsWithoutRedis(t *testing.T) {
	f := newServiceFixture(t)
	variant := f.createVariant(t, "glove", "45", 9)
	identity := SessionIdentity("counts")
	if _, err := f.cart.AddItem(identity, variant.ID, 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := f.wishlist.Add(identity, variant.ProductID); err != nil {
		t.Fatalf("wishlist add failed: %v", err)
	}
	counts, err := f.cart.Counts(context.Background(), identity)
	if err != nil {
		t.Fatalf("counts failed: %v", err)
	}
	if counts.CartItems != 3 || counts.WishlistItems != 1 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}

func (f *serviceFixture) userCartItems(t *testing.T, userID uint) map[uint]int {
	t.Helper()
	repo := repository.NewCartRepository(f.db)
	cart, err := repo.FindByUser(userID, false)
	if err != nil || cart == nil {
		t.Fatalf("user cart missing: %v", err)
	}
	items, err := repo.ListItems(cart.ID)
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	out := make(map[uint]int, len(items))
	for _, item := range items {
		out[item.VariantID] = item.Quantity
	}
	return out
}
