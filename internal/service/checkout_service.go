package service

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/nilecart/internal/constants"
	"github.com/nilecart/internal/logger"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/queue"
	"github.com/nilecart/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var shippingValidator = newShippingValidator()

func newShippingValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkoutHooks 仅供测试注入故障
var checkoutHooks = struct {
	afterStockDecrement func(tx *gorm.DB) error
	orderNumber         func() string
}{}

// ShippingInfo 下单收货信息
type ShippingInfo struct {
	Email             string `json:"email" validate:"required,email,max=254"`
	Phone             string `json:"phone" validate:"omitempty,max=32"`
	FirstName         string `json:"first_name" validate:"required,max=100"`
	LastName          string `json:"last_name" validate:"required,max=100"`
	AddressLine1      string `json:"address_line1" validate:"required,max=255"`
	AddressLine2      string `json:"address_line2" validate:"omitempty,max=255"`
	City              string `json:"city" validate:"required,max=100"`
	State             string `json:"state" validate:"omitempty,max=100"`
	PostalCode        string `json:"postal_code" validate:"omitempty,max=20"`
	Country           string `json:"country" validate:"required,len=2,alpha"`
	Notes             string `json:"notes" validate:"omitempty,max=1000"`
	ShippingAddressID *uint  `json:"shipping_address_id"`
}

func (info *ShippingInfo) normalize(defaultCountry string) {
	info.Email = strings.ToLower(strings.TrimSpace(info.Email))
	info.Phone = strings.TrimSpace(info.Phone)
	info.FirstName = strings.TrimSpace(info.FirstName)
	info.LastName = strings.TrimSpace(info.LastName)
	info.AddressLine1 = strings.TrimSpace(info.AddressLine1)
	info.AddressLine2 = strings.TrimSpace(info.AddressLine2)
	info.City = strings.TrimSpace(info.City)
	info.State = strings.TrimSpace(info.State)
	info.PostalCode = strings.TrimSpace(info.PostalCode)
	info.Country = strings.ToUpper(strings.TrimSpace(info.Country))
	if info.Country == "" {
		info.Country = defaultCountry
	}
	info.Notes = strings.TrimSpace(info.Notes)
}

// fillFromAddress 地址簿记录补齐空字段
func (info *ShippingInfo) fillFromAddress(address *models.ShippingAddress) {
	fill := func(target *string, value string) {
		if strings.TrimSpace(*target) == "" {
			*target = value
		}
	}
	fill(&info.FirstName, address.FirstName)
	fill(&info.LastName, address.LastName)
	fill(&info.Phone, address.Phone)
	fill(&info.AddressLine1, address.AddressLine1)
	fill(&info.AddressLine2, address.AddressLine2)
	fill(&info.City, address.City)
	fill(&info.State, address.State)
	fill(&info.PostalCode, address.PostalCode)
	fill(&info.Country, address.Country)
}

// validateShippingInfo 返回首个不合法字段
func validateShippingInfo(info ShippingInfo) error {
	err := shippingValidator.Struct(info)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		return &ValidationError{Code: ReasonInvalidShipping, Field: fieldErrs[0].Field()}
	}
	return &ValidationError{Code: ReasonInvalidShipping}
}

// IsSupportedPaymentMethod 支付方式白名单
func IsSupportedPaymentMethod(method string) bool {
	switch method {
	case constants.PaymentMethodCreditCard,
		constants.PaymentMethodPaypal,
		constants.PaymentMethodBankTransfer,
		constants.PaymentMethodCashOnDelivery:
		return true
	}
	return false
}

// CheckoutService 结算服务
type CheckoutService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	addressRepo repository.ShippingAddressRepository
	queueClient *queue.Client
	policy      ShippingPolicy
	now         func() time.Time
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	addressRepo repository.ShippingAddressRepository,
	queueClient *queue.Client,
	policy ShippingPolicy,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		addressRepo: addressRepo,
		queueClient: queueClient,
		policy:      policy,
		now:         time.Now,
	}
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	Shipping      ShippingInfo
	PaymentMethod string
	CouponCode    string
	Locale        string
}

// PlaceOrder 单事务完成下单：锁购物车 → 锁规格 → 复核优惠券 → 建单 → 扣库存 → 建支付 → 清空购物车
func (s *CheckoutService) PlaceOrder(ctx context.Context, identity Identity, input PlaceOrderInput) (*models.Order, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	paymentMethod := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if !IsSupportedPaymentMethod(paymentMethod) {
		return nil, ErrInvalidPayment
	}
	info := input.Shipping
	if info.ShippingAddressID != nil {
		if identity.IsAnonymous() {
			return nil, &ValidationError{Code: ReasonInvalidShipping, Field: "shipping_address_id"}
		}
		address, err := s.addressRepo.GetForUser(*info.ShippingAddressID, identity.UserID)
		if err != nil {
			return nil, err
		}
		if address == nil {
			return nil, ErrAddressNotFound
		}
		info.fillFromAddress(address)
	}
	info.normalize(s.policy.DomesticCountry)
	if err := validateShippingInfo(info); err != nil {
		return nil, err
	}

	var order *models.Order
	err := models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := s.placeOrderTx(tx, identity, info, paymentMethod, input.CouponCode)
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		logger.Infow("checkout_rejected",
			"identity", identity.String(),
			"reason", ReasonOf(err),
			"error", err,
		)
		return nil, err
	}

	invalidateIdentityCounts(identity)
	s.notifyOrderPlaced(order.ID, input.Locale)
	logger.Infow("checkout_order_placed",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"identity", identity.String(),
		"grand_total", order.GrandTotal.String(),
		"payment_method", order.PaymentMethod,
	)

	full, err := s.orderRepo.GetByID(order.ID, false)
	if err != nil || full == nil {
		return order, nil
	}
	return full, nil
}

func (s *CheckoutService) placeOrderTx(tx *gorm.DB, identity Identity, info ShippingInfo, paymentMethod, couponCode string) (*models.Order, error) {
	cartRepo := s.cartRepo.WithTx(tx)
	productRepo := s.productRepo.WithTx(tx)
	couponRepo := s.couponRepo.WithTx(tx)
	orderRepo := s.orderRepo.WithTx(tx)
	paymentRepo := s.paymentRepo.WithTx(tx)

	cart, err := lockCart(cartRepo, identity, false)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartEmpty
	}
	items, err := cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	variantIDs := make([]uint, 0, len(items))
	for _, item := range items {
		variantIDs = append(variantIDs, item.VariantID)
	}
	variants, err := productRepo.LockVariants(variantIDs)
	if err != nil {
		return nil, err
	}
	live := make(map[uint]models.ProductVariant, len(variants))
	for _, v := range variants {
		live[v.ID] = v
	}

	// 以锁定后的实时价格与库存为准，不信任购物车缓存合计
	subtotal := decimal.Zero
	totalItems := 0
	for _, item := range items {
		variant, ok := live[item.VariantID]
		if !ok || variant.Product == nil || !variant.Product.IsActive {
			return nil, &StockError{VariantID: item.VariantID, Requested: item.Quantity, Available: 0}
		}
		if variant.StockQuantity < item.Quantity {
			return nil, &StockError{VariantID: item.VariantID, Requested: item.Quantity, Available: variant.StockQuantity}
		}
		subtotal = subtotal.Add(lineTotal(VariantPrice(&variant), item.Quantity))
		totalItems += item.Quantity
	}

	coupon, discount, err := lockCouponForOrder(couponRepo, couponCode, subtotal, s.now())
	if err != nil {
		return nil, err
	}
	shipping := ShippingCost(subtotal, totalItems, info.City, info.Country, s.policy)
	total := grandTotal(subtotal, shipping.Cost.Decimal, discount)

	order := &models.Order{
		Email:             info.Email,
		Phone:             info.Phone,
		FirstName:         info.FirstName,
		LastName:          info.LastName,
		AddressLine1:      info.AddressLine1,
		AddressLine2:      info.AddressLine2,
		City:              info.City,
		State:             info.State,
		PostalCode:        info.PostalCode,
		Country:           info.Country,
		ShippingAddressID: info.ShippingAddressID,
		Subtotal:          models.NewMoneyFromDecimal(subtotal),
		ShippingCost:      shipping.Cost,
		DiscountAmount:    models.NewMoneyFromDecimal(discount),
		GrandTotal:        models.NewMoneyFromDecimal(total),
		Status:            initialOrderStatus(paymentMethod),
		PaymentStatus:     constants.PaymentStatusPending,
		PaymentMethod:     paymentMethod,
		Notes:             info.Notes,
	}
	if identity.UserID != 0 {
		userID := identity.UserID
		order.UserID = &userID
	} else {
		order.AnonymousAccessToken = newAccessToken()
	}
	if coupon != nil {
		couponID := coupon.ID
		order.CouponID = &couponID
		order.CouponCode = coupon.Code
	}
	if err := createOrderWithRetry(tx, orderRepo, order); err != nil {
		return nil, err
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		variant := live[item.VariantID]
		affected, err := productRepo.DecrementStock(variant.ID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, &StockError{VariantID: variant.ID, Requested: item.Quantity, Available: variant.StockQuantity}
		}
		unit := VariantPrice(&variant)
		orderItems = append(orderItems, models.OrderItem{
			OrderID:         order.ID,
			VariantID:       variant.ID,
			ProductID:       variant.ProductID,
			ProductName:     productName(&variant),
			VariantLabel:    variant.Label(),
			SKU:             variant.SKU,
			Quantity:        item.Quantity,
			PriceAtPurchase: unit,
			LineTotal:       models.NewMoneyFromDecimal(lineTotal(unit, item.Quantity)),
		})
	}
	if hook := checkoutHooks.afterStockDecrement; hook != nil {
		if err := hook(tx); err != nil {
			return nil, err
		}
	}
	if err := orderRepo.CreateItems(orderItems); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		OrderID: order.ID,
		Method:  paymentMethod,
		Amount:  order.GrandTotal,
		Details: models.JSON{
			"order_number":   order.OrderNumber,
			"payment_status": order.PaymentStatus,
		},
	}
	if err := paymentRepo.Create(payment); err != nil {
		return nil, err
	}
	if err := consumeCoupon(couponRepo, coupon); err != nil {
		return nil, err
	}

	if identity.IsAnonymous() {
		if err := cartRepo.Delete(cart.ID); err != nil {
			return nil, err
		}
	} else {
		if err := cartRepo.ClearItems(cart.ID); err != nil {
			return nil, err
		}
		if err := cartRepo.UpdateTotals(cart.ID, 0, models.NewMoneyFromDecimal(decimal.Zero)); err != nil {
			return nil, err
		}
	}

	order.Items = orderItems
	order.Payment = payment
	return order, nil
}

// initialOrderStatus 货到付款直接进入履约，其余等待付款
func initialOrderStatus(paymentMethod string) string {
	if paymentMethod == constants.PaymentMethodCashOnDelivery {
		return constants.OrderStatusProcessing
	}
	return constants.OrderStatusPending
}

// createOrderWithRetry 订单号冲突时重新生成并重试一次
func createOrderWithRetry(tx *gorm.DB, orderRepo repository.OrderRepository, order *models.Order) error {
	const savepoint = "order_number"
	for attempt := 0; attempt < 2; attempt++ {
		order.ID = 0
		order.OrderNumber = generateOrderNumber()
		if err := tx.SavePoint(savepoint).Error; err != nil {
			return err
		}
		err := orderRepo.Create(order)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
		if err := tx.RollbackTo(savepoint).Error; err != nil {
			return err
		}
		logger.Warnw("checkout_order_number_collision", "order_number", order.OrderNumber, "attempt", attempt+1)
	}
	return &ConcurrencyError{Op: "order_number"}
}

func generateOrderNumber() string {
	if checkoutHooks.orderNumber != nil {
		return checkoutHooks.orderNumber()
	}
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func newAccessToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// notifyOrderPlaced 入队失败只记录日志，不影响订单
func (s *CheckoutService) notifyOrderPlaced(orderID uint, locale string) {
	if s.queueClient == nil {
		return
	}
	payload := queue.OrderNotificationPayload{OrderID: orderID, Locale: locale}
	if err := s.queueClient.EnqueueOrderConfirmation(payload); err != nil {
		logger.Warnw("checkout_enqueue_confirmation_failed", "order_id", orderID, "error", err)
	}
	if err := s.queueClient.EnqueueOrderAdminNew(payload); err != nil {
		logger.Warnw("checkout_enqueue_admin_new_failed", "order_id", orderID, "error", err)
	}
}
