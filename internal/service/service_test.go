package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/nilecart/internal/config"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type serviceFixture struct {
	db       *gorm.DB
	policy   ShippingPolicy
	cart     *CartService
	wishlist *WishlistService
	coupon   *CouponService
	checkout *CheckoutService
	orders   *OrderService
}

// setupServiceTestDB 单连接内存库，事务之间天然串行
func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	previous := models.DB
	models.DB = db
	t.Cleanup(func() {
		models.DB = previous
		_ = sqlDB.Close()
	})
	return db
}

func testShippingPolicy(t *testing.T) ShippingPolicy {
	t.Helper()
	policy, err := NewShippingPolicy(config.ShippingConfig{
		FreeThreshold:     "1000",
		MetroRate:         "50",
		DomesticRate:      "80",
		InternationalRate: "350",
		DomesticCountry:   "eg",
		MetroCities:       []string{"Cairo", "Giza"},
	})
	if err != nil {
		t.Fatalf("build shipping policy failed: %v", err)
	}
	return policy
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	policy := testShippingPolicy(t)

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	addressRepo := repository.NewShippingAddressRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	cartService := NewCartService(cartRepo, productRepo, wishlistRepo, addressRepo, policy, CartServiceOptions{})
	return &serviceFixture{
		db:       db,
		policy:   policy,
		cart:     cartService,
		wishlist: NewWishlistService(wishlistRepo, productRepo),
		coupon:   NewCouponService(couponRepo, cartService),
		checkout: NewCheckoutService(cartRepo, productRepo, couponRepo, orderRepo, paymentRepo, addressRepo, nil, policy),
		orders:   NewOrderService(orderRepo, paymentRepo, nil),
	}
}

func (f *serviceFixture) createVariant(t *testing.T, slug, price string, stock int) *models.ProductVariant {
	t.Helper()
	product := &models.Product{
		Name:     "Product " + slug,
		Slug:     slug,
		Price:    models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		IsActive: true,
	}
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	size := &models.Size{Name: "size-" + slug}
	if err := f.db.Create(size).Error; err != nil {
		t.Fatalf("create size failed: %v", err)
	}
	variant := &models.ProductVariant{
		ProductID:     product.ID,
		SizeID:        &size.ID,
		SKU:           "SKU-" + slug,
		StockQuantity: stock,
	}
	if err := f.db.Create(variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	variant.Product = product
	return variant
}

func (f *serviceFixture) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x", Status: "active"}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (f *serviceFixture) setStock(t *testing.T, variantID uint, stock int) {
	t.Helper()
	if err := f.db.Model(&models.ProductVariant{}).Where("id = ?", variantID).Update("stock_quantity", stock).Error; err != nil {
		t.Fatalf("update stock failed: %v", err)
	}
}

func (f *serviceFixture) stockOf(t *testing.T, variantID uint) int {
	t.Helper()
	var variant models.ProductVariant
	if err := f.db.First(&variant, variantID).Error; err != nil {
		t.Fatalf("load variant failed: %v", err)
	}
	return variant.StockQuantity
}

func (f *serviceFixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var total int64
	if err := f.db.Model(model).Count(&total).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return total
}

// assertCartTotals 缓存合计必须等于按实时单价重新聚合的结果
func (f *serviceFixture) assertCartTotals(t *testing.T, identity Identity) {
	t.Helper()
	cart, err := findCart(repository.NewCartRepository(f.db), identity, false)
	if err != nil {
		t.Fatalf("find cart failed: %v", err)
	}
	if cart == nil {
		return
	}
	items, err := repository.NewCartRepository(f.db).ListItems(cart.ID)
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	wantItems := 0
	wantPrice := decimal.Zero
	for _, item := range items {
		wantItems += item.Quantity
		wantPrice = wantPrice.Add(lineTotal(VariantPrice(item.Variant), item.Quantity))
	}
	if cart.TotalItems != wantItems {
		t.Fatalf("total_items want %d got %d", wantItems, cart.TotalItems)
	}
	if !cart.TotalPrice.Equal(wantPrice) {
		t.Fatalf("total_price want %s got %s", wantPrice.StringFixed(2), cart.TotalPrice.StringFixed(2))
	}
}

func validShippingInfo() ShippingInfo {
	return ShippingInfo{
		Email:        "Buyer@Example.com",
		FirstName:    "Mona",
		LastName:     "Adel",
		AddressLine1: "12 Nile St",
		City:         "Cairo",
	}
}
