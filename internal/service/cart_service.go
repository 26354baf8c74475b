package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nilecart/internal/cache"
	"github.com/nilecart/internal/logger"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultCountsTTL    = 30 * time.Second
	defaultMergeLockTTL = 10 * time.Second
)

// CartLine 购物车项详情（用于响应）
type CartLine struct {
	ItemID        uint         `json:"item_id"`
	VariantID     uint         `json:"variant_id"`
	ProductID     uint         `json:"product_id"`
	ProductName   string       `json:"product_name"`
	ProductSlug   string       `json:"product_slug"`
	VariantLabel  string       `json:"variant_label"`
	SKU           string       `json:"sku"`
	Quantity      int          `json:"quantity"`
	UnitPrice     models.Money `json:"unit_price"`
	LineTotal     models.Money `json:"line_total"`
	StockQuantity int          `json:"stock_quantity"`
}

// QuantityAdjustment 库存校正或合并截断产生的数量调整
type QuantityAdjustment struct {
	ItemID      uint   `json:"item_id"`
	VariantID   uint   `json:"variant_id"`
	ProductName string `json:"product_name"`
	Before      int    `json:"before"`
	After       int    `json:"after"`
	Removed     bool   `json:"removed"`
}

// Destination 收货目的地（用于运费）
type Destination struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// IsEmpty 目的地未知
func (d Destination) IsEmpty() bool {
	return strings.TrimSpace(d.City) == "" && strings.TrimSpace(d.Country) == ""
}

// CartView 购物车视图
type CartView struct {
	Cart        *models.Cart         `json:"-"`
	Items       []CartLine           `json:"items"`
	TotalItems  int                  `json:"total_items"`
	TotalPrice  models.Money         `json:"total_price"`
	Shipping    ShippingQuote        `json:"shipping"`
	GrandTotal  models.Money         `json:"grand_total"`
	Adjustments []QuantityAdjustment `json:"adjustments,omitempty"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	wishlistRepo repository.WishlistRepository
	addressRepo  repository.ShippingAddressRepository
	policy       ShippingPolicy
	countsTTL    time.Duration
	mergeLockTTL time.Duration
}

// CartServiceOptions 购物车服务可选参数
type CartServiceOptions struct {
	CountsTTL    time.Duration
	MergeLockTTL time.Duration
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, wishlistRepo repository.WishlistRepository, addressRepo repository.ShippingAddressRepository, policy ShippingPolicy, opts CartServiceOptions) *CartService {
	countsTTL := opts.CountsTTL
	if countsTTL <= 0 {
		countsTTL = defaultCountsTTL
	}
	mergeLockTTL := opts.MergeLockTTL
	if mergeLockTTL <= 0 {
		mergeLockTTL = defaultMergeLockTTL
	}
	return &CartService{
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		wishlistRepo: wishlistRepo,
		addressRepo:  addressRepo,
		policy:       policy,
		countsTTL:    countsTTL,
		mergeLockTTL: mergeLockTTL,
	}
}

// ShippingPolicy 当前运费规则
func (s *CartService) ShippingPolicy() ShippingPolicy {
	return s.policy
}

// GetOrCreateCart 获取身份对应的唯一购物车，不存在时创建
func (s *CartService) GetOrCreateCart(identity Identity) (*models.Cart, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	cart, err := findCart(s.cartRepo, identity, false)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = newCart(identity)
	if err := s.cartRepo.Create(cart); err != nil {
		// 并发创建撞上唯一索引时回读已存在的购物车
		existing, findErr := findCart(s.cartRepo, identity, false)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem 加入购物车，合计数量超过库存时拒绝
func (s *CartService) AddItem(identity Identity, variantID uint, quantity int) (*models.Cart, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if variantID == 0 {
		return nil, ErrVariantNotFound
	}

	var cart *models.Cart
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		locked, err := lockCart(cartRepo, identity, true)
		if err != nil {
			return err
		}
		variant, err := lockVariant(productRepo, variantID)
		if err != nil {
			return err
		}

		existing, err := cartRepo.GetItemByVariant(locked.ID, variantID)
		if err != nil {
			return err
		}
		current := 0
		if existing != nil {
			current = existing.Quantity
		}
		requested := current + quantity
		if requested > variant.StockQuantity {
			available := variant.StockQuantity - current
			if available < 0 {
				available = 0
			}
			return &StockError{VariantID: variantID, Requested: quantity, Available: available}
		}

		if existing != nil {
			if err := cartRepo.UpdateItemQuantity(existing.ID, requested); err != nil {
				return err
			}
		} else {
			item := &models.CartItem{CartID: locked.ID, VariantID: variantID, Quantity: quantity}
			if err := cartRepo.CreateItem(item); err != nil {
				return err
			}
		}
		if _, err := recomputeTotals(cartRepo, locked); err != nil {
			return err
		}
		cart = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCounts(identity)
	return cart, nil
}

// SetItemQuantity 设置数量：<=0 删除；超过库存时截断并返回调整提示
func (s *CartService) SetItemQuantity(identity Identity, itemID uint, quantity int) (*models.Cart, *QuantityAdjustment, error) {
	if err := identity.Validate(); err != nil {
		return nil, nil, err
	}

	var cart *models.Cart
	var adjustment *QuantityAdjustment
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		locked, err := lockCart(cartRepo, identity, false)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrItemNotFound
		}
		item, err := cartRepo.GetItem(locked.ID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrItemNotFound
		}

		if quantity <= 0 {
			if _, err := cartRepo.DeleteItem(locked.ID, item.ID); err != nil {
				return err
			}
		} else {
			variant, err := lockVariant(productRepo, item.VariantID)
			if err != nil && !errors.Is(err, ErrVariantNotFound) {
				return err
			}
			stock := 0
			name := ""
			if variant != nil {
				stock = variant.StockQuantity
				name = productName(variant)
			}
			target := quantity
			if target > stock {
				target = stock
				adjustment = &QuantityAdjustment{
					ItemID:      item.ID,
					VariantID:   item.VariantID,
					ProductName: name,
					Before:      quantity,
					After:       stock,
					Removed:     stock == 0,
				}
			}
			if target <= 0 {
				if _, err := cartRepo.DeleteItem(locked.ID, item.ID); err != nil {
					return err
				}
			} else if err := cartRepo.UpdateItemQuantity(item.ID, target); err != nil {
				return err
			}
		}
		if _, err := recomputeTotals(cartRepo, locked); err != nil {
			return err
		}
		cart = locked
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.invalidateCounts(identity)
	return cart, adjustment, nil
}

// RemoveItem 删除购物车项，不存在时为空操作
func (s *CartService) RemoveItem(identity Identity, itemID uint) (*models.Cart, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	var cart *models.Cart
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		locked, err := lockCart(cartRepo, identity, false)
		if err != nil {
			return err
		}
		if locked == nil {
			cart = newCart(identity)
			return nil
		}
		affected, err := cartRepo.DeleteItem(locked.ID, itemID)
		if err != nil {
			return err
		}
		if affected > 0 {
			if _, err := recomputeTotals(cartRepo, locked); err != nil {
				return err
			}
		}
		cart = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCounts(identity)
	return cart, nil
}

// ReconcileStock 按实时库存校正购物车（库存为 0 删除，不足则截断）
func (s *CartService) ReconcileStock(identity Identity) ([]QuantityAdjustment, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	var adjustments []QuantityAdjustment
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		locked, err := lockCart(cartRepo, identity, false)
		if err != nil || locked == nil {
			return err
		}
		adjustments, _, err = reconcileCart(cartRepo, s.productRepo.WithTx(tx), locked)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(adjustments) > 0 {
		s.invalidateCounts(identity)
	}
	return adjustments, nil
}

// RecomputeTotals 全量重算并持久化缓存合计
func (s *CartService) RecomputeTotals(identity Identity) (*models.Cart, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	var cart *models.Cart
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		locked, err := lockCart(cartRepo, identity, false)
		if err != nil {
			return err
		}
		if locked == nil {
			cart = newCart(identity)
			return nil
		}
		if _, err := recomputeTotals(cartRepo, locked); err != nil {
			return err
		}
		cart = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// ViewCart 校正库存后返回购物车明细、合计与运费，不会创建购物车
func (s *CartService) ViewCart(identity Identity, destination Destination) (*CartView, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	destination = s.resolveDestination(identity, destination)

	cart, err := findCart(s.cartRepo, identity, false)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return s.buildView(newCart(identity), nil, nil, destination), nil
	}

	var items []models.CartItem
	var adjustments []QuantityAdjustment
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		locked, err := lockCart(cartRepo, identity, false)
		if err != nil {
			return err
		}
		if locked == nil {
			cart = newCart(identity)
			return nil
		}
		adjustments, items, err = reconcileCart(cartRepo, s.productRepo.WithTx(tx), locked)
		cart = locked
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(adjustments) > 0 {
		s.invalidateCounts(identity)
	}
	return s.buildView(cart, items, adjustments, destination), nil
}

// MergeIntoUserCart 登录时将匿名购物车并入用户购物车，重复调用为空操作
func (s *CartService) MergeIntoUserCart(ctx context.Context, sessionToken string, userID uint) ([]QuantityAdjustment, error) {
	sessionToken = strings.TrimSpace(sessionToken)
	if sessionToken == "" || userID == 0 {
		return nil, nil
	}
	lock, err := cache.AcquireLock(ctx, "cart_merge:"+sessionToken, s.mergeLockTTL)
	if err != nil {
		if errors.Is(err, cache.ErrLockNotAcquired) {
			return nil, &ConcurrencyError{Op: "cart_merge"}
		}
		// Redis 不可用时依赖数据库行锁
		logger.Warnw("cart_merge_lock_unavailable", "user_id", userID, "error", err)
	}
	defer func() {
		if lock != nil {
			if err := lock.Release(ctx); err != nil {
				logger.Debugw("cart_merge_lock_release_failed", "user_id", userID, "error", err)
			}
		}
	}()

	var adjustments []QuantityAdjustment
	merged := false
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		sessionCart, err := cartRepo.FindBySessionToken(sessionToken, false)
		if err != nil || sessionCart == nil {
			return err
		}
		userCart, err := cartRepo.FindByUser(userID, false)
		if err != nil {
			return err
		}
		if userCart == nil {
			userCart = newCart(UserIdentity(userID))
			if err := cartRepo.Create(userCart); err != nil {
				return err
			}
		}

		// 两个购物车按 ID 升序加锁，再确认匿名购物车仍存在
		locked, err := cartRepo.LockCarts([]uint{sessionCart.ID, userCart.ID})
		if err != nil {
			return err
		}
		if !containsCart(locked, sessionCart.ID) {
			return nil
		}

		sessionItems, err := cartRepo.ListItems(sessionCart.ID)
		if err != nil {
			return err
		}
		if len(sessionItems) > 0 {
			variantIDs := make([]uint, 0, len(sessionItems))
			for _, item := range sessionItems {
				variantIDs = append(variantIDs, item.VariantID)
			}
			variants, err := productRepo.LockVariants(variantIDs)
			if err != nil {
				return err
			}
			stockByID := make(map[uint]int, len(variants))
			for _, v := range variants {
				stockByID[v.ID] = v.StockQuantity
			}

			for _, item := range sessionItems {
				stock := stockByID[item.VariantID]
				existing, err := cartRepo.GetItemByVariant(userCart.ID, item.VariantID)
				if err != nil {
					return err
				}
				combined := item.Quantity
				if existing != nil {
					combined += existing.Quantity
				}
				target := combined
				if target > stock {
					target = stock
					adjustments = append(adjustments, QuantityAdjustment{
						ItemID:      item.ID,
						VariantID:   item.VariantID,
						ProductName: productName(item.Variant),
						Before:      combined,
						After:       stock,
						Removed:     stock == 0,
					})
				}

				switch {
				case existing != nil && target > 0:
					if err := cartRepo.UpdateItemQuantity(existing.ID, target); err != nil {
						return err
					}
				case existing != nil:
					if _, err := cartRepo.DeleteItem(userCart.ID, existing.ID); err != nil {
						return err
					}
				case target > 0:
					if err := cartRepo.MoveItem(item.ID, userCart.ID); err != nil {
						return err
					}
					if target != item.Quantity {
						if err := cartRepo.UpdateItemQuantity(item.ID, target); err != nil {
							return err
						}
					}
				}
			}
		}

		// 最后删除匿名购物车，重放时找不到即为空操作
		if err := cartRepo.Delete(sessionCart.ID); err != nil {
			return err
		}
		if _, err := recomputeTotals(cartRepo, userCart); err != nil {
			return err
		}
		merged = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if merged {
		s.invalidateCounts(SessionIdentity(sessionToken), UserIdentity(userID))
		logger.Infow("cart_merge_completed", "user_id", userID, "adjustments", len(adjustments))
	}
	return adjustments, nil
}

// BuyNow 清空购物车并只保留一件指定规格
func (s *CartService) BuyNow(identity Identity, variantID uint) (*models.Cart, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	var cart *models.Cart
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		locked, err := lockCart(cartRepo, identity, true)
		if err != nil {
			return err
		}
		variant, err := lockVariant(s.productRepo.WithTx(tx), variantID)
		if err != nil {
			return err
		}
		if variant.StockQuantity < 1 {
			return &StockError{VariantID: variantID, Requested: 1, Available: 0}
		}
		if err := cartRepo.ClearItems(locked.ID); err != nil {
			return err
		}
		if err := cartRepo.CreateItem(&models.CartItem{CartID: locked.ID, VariantID: variantID, Quantity: 1}); err != nil {
			return err
		}
		if _, err := recomputeTotals(cartRepo, locked); err != nil {
			return err
		}
		cart = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCounts(identity)
	return cart, nil
}

// Counts 购物车件数与收藏数（短期缓存）
func (s *CartService) Counts(ctx context.Context, identity Identity) (cache.IdentityCounts, error) {
	if err := identity.Validate(); err != nil {
		return cache.IdentityCounts{}, err
	}
	key := cache.CountsKey(identity.UserID, identity.token())
	if cached, hit, err := cache.GetCounts(ctx, key); err == nil && hit {
		return *cached, nil
	} else if err != nil {
		logger.Debugw("cart_counts_cache_get_failed", "identity", identity.String(), "error", err)
	}

	var counts cache.IdentityCounts
	cart, err := findCart(s.cartRepo, identity, false)
	if err != nil {
		return counts, err
	}
	if cart != nil {
		counts.CartItems = cart.TotalItems
	}
	if s.wishlistRepo != nil {
		wishlist, err := findWishlist(s.wishlistRepo, identity, false)
		if err != nil {
			return counts, err
		}
		if wishlist != nil {
			total, err := s.wishlistRepo.CountItems(wishlist.ID)
			if err != nil {
				return counts, err
			}
			counts.WishlistItems = int(total)
		}
	}
	if err := cache.SetCounts(ctx, key, counts, s.countsTTL); err != nil {
		logger.Debugw("cart_counts_cache_set_failed", "identity", identity.String(), "error", err)
	}
	return counts, nil
}

func (s *CartService) invalidateCounts(identities ...Identity) {
	invalidateIdentityCounts(identities...)
}

// resolveDestination 未传目的地时，登录用户使用默认地址
func (s *CartService) resolveDestination(identity Identity, destination Destination) Destination {
	if !destination.IsEmpty() || identity.IsAnonymous() || s.addressRepo == nil {
		return destination
	}
	addresses, err := s.addressRepo.ListByUser(identity.UserID)
	if err != nil {
		logger.Debugw("cart_default_address_lookup_failed", "user_id", identity.UserID, "error", err)
		return destination
	}
	for _, address := range addresses {
		if address.IsDefault {
			return Destination{City: address.City, Country: address.Country}
		}
	}
	return destination
}

func (s *CartService) buildView(cart *models.Cart, items []models.CartItem, adjustments []QuantityAdjustment, destination Destination) *CartView {
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, buildCartLine(item))
	}
	subtotal := cart.TotalPrice.Decimal
	shipping := ShippingCost(subtotal, cart.TotalItems, destination.City, destination.Country, s.policy)
	return &CartView{
		Cart:        cart,
		Items:       lines,
		TotalItems:  cart.TotalItems,
		TotalPrice:  models.NewMoneyFromDecimal(subtotal),
		Shipping:    shipping,
		GrandTotal:  models.NewMoneyFromDecimal(grandTotal(subtotal, shipping.Cost.Decimal, decimal.Zero)),
		Adjustments: adjustments,
	}
}

func buildCartLine(item models.CartItem) CartLine {
	line := CartLine{
		ItemID:    item.ID,
		VariantID: item.VariantID,
		Quantity:  item.Quantity,
	}
	if item.Variant == nil {
		return line
	}
	unit := VariantPrice(item.Variant)
	line.UnitPrice = unit
	line.LineTotal = models.NewMoneyFromDecimal(lineTotal(unit, item.Quantity))
	line.VariantLabel = item.Variant.Label()
	line.SKU = item.Variant.SKU
	line.StockQuantity = item.Variant.StockQuantity
	line.ProductID = item.Variant.ProductID
	if item.Variant.Product != nil {
		line.ProductName = item.Variant.Product.Name
		line.ProductSlug = item.Variant.Product.Slug
	}
	return line
}

func newCart(identity Identity) *models.Cart {
	cart := &models.Cart{TotalPrice: models.NewMoneyFromDecimal(decimal.Zero)}
	if identity.UserID != 0 {
		userID := identity.UserID
		cart.UserID = &userID
	} else {
		token := identity.token()
		cart.SessionToken = &token
	}
	return cart
}

func findCart(cartRepo repository.CartRepository, identity Identity, lock bool) (*models.Cart, error) {
	if identity.UserID != 0 {
		return cartRepo.FindByUser(identity.UserID, lock)
	}
	return cartRepo.FindBySessionToken(identity.token(), lock)
}

// lockCart 事务内锁定购物车，create 为 true 时不存在即创建
func lockCart(cartRepo repository.CartRepository, identity Identity, create bool) (*models.Cart, error) {
	cart, err := findCart(cartRepo, identity, true)
	if err != nil {
		return nil, err
	}
	if cart != nil || !create {
		return cart, nil
	}
	cart = newCart(identity)
	if err := cartRepo.Create(cart); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

// lockVariant 锁定规格行，商品下架视为不存在
func lockVariant(productRepo repository.ProductRepository, variantID uint) (*models.ProductVariant, error) {
	variants, err := productRepo.LockVariants([]uint{variantID})
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, ErrVariantNotFound
	}
	variant := variants[0]
	if variant.Product == nil || !variant.Product.IsActive {
		return nil, ErrVariantNotFound
	}
	return &variant, nil
}

// recomputeTotals 全量重算 total_items 与 total_price 并写回
func recomputeTotals(cartRepo repository.CartRepository, cart *models.Cart) ([]models.CartItem, error) {
	items, err := cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	totalItems := 0
	totalPrice := decimal.Zero
	for _, item := range items {
		totalItems += item.Quantity
		if item.Variant != nil {
			totalPrice = totalPrice.Add(lineTotal(VariantPrice(item.Variant), item.Quantity))
		}
	}
	price := models.NewMoneyFromDecimal(totalPrice)
	if err := cartRepo.UpdateTotals(cart.ID, totalItems, price); err != nil {
		return nil, err
	}
	cart.TotalItems = totalItems
	cart.TotalPrice = price
	cart.Items = items
	return items, nil
}

// reconcileCart 锁定全部规格（ID 升序）后按库存校正，并重算合计
func reconcileCart(cartRepo repository.CartRepository, productRepo repository.ProductRepository, cart *models.Cart) ([]QuantityAdjustment, []models.CartItem, error) {
	items, err := cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, nil, err
	}
	variantIDs := make([]uint, 0, len(items))
	for _, item := range items {
		variantIDs = append(variantIDs, item.VariantID)
	}
	variants, err := productRepo.LockVariants(variantIDs)
	if err != nil {
		return nil, nil, err
	}
	live := make(map[uint]models.ProductVariant, len(variants))
	for _, v := range variants {
		live[v.ID] = v
	}

	var adjustments []QuantityAdjustment
	for _, item := range items {
		stock := 0
		if v, ok := live[item.VariantID]; ok && v.Product != nil && v.Product.IsActive {
			stock = v.StockQuantity
		}
		if item.Quantity <= stock {
			continue
		}
		adjustment := QuantityAdjustment{
			ItemID:      item.ID,
			VariantID:   item.VariantID,
			ProductName: productName(item.Variant),
			Before:      item.Quantity,
			After:       stock,
			Removed:     stock == 0,
		}
		if stock == 0 {
			if _, err := cartRepo.DeleteItem(cart.ID, item.ID); err != nil {
				return nil, nil, err
			}
		} else if err := cartRepo.UpdateItemQuantity(item.ID, stock); err != nil {
			return nil, nil, err
		}
		adjustments = append(adjustments, adjustment)
	}

	refreshed, err := recomputeTotals(cartRepo, cart)
	if err != nil {
		return nil, nil, err
	}
	return adjustments, refreshed, nil
}

func containsCart(carts []models.Cart, id uint) bool {
	for _, cart := range carts {
		if cart.ID == id {
			return true
		}
	}
	return false
}

func productName(variant *models.ProductVariant) string {
	if variant == nil || variant.Product == nil {
		return ""
	}
	return variant.Product.Name
}
