package service

import (
	"errors"
	"strings"
	"time"

	"github.com/nilecart/internal/constants"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService 优惠券服务
type CouponService struct {
	couponRepo  repository.CouponRepository
	cartService *CartService
	now         func() time.Time
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository, cartService *CartService) *CouponService {
	return &CouponService{
		couponRepo:  couponRepo,
		cartService: cartService,
		now:         time.Now,
	}
}

// CouponQuote 优惠券试算结果
type CouponQuote struct {
	Code         string        `json:"code"`
	Valid        bool          `json:"valid"`
	Reason       string        `json:"reason,omitempty"`
	MinimumOrder string        `json:"minimum_order,omitempty"`
	Subtotal     models.Money  `json:"subtotal"`
	Discount     models.Money  `json:"discount"`
	Shipping     ShippingQuote `json:"shipping"`
	GrandTotal   models.Money  `json:"grand_total"`
}

// ApplyCoupon 对当前购物车试算优惠券，不落库、不占用次数
func (s *CouponService) ApplyCoupon(identity Identity, code string, destination Destination) (*CouponQuote, error) {
	view, err := s.cartService.ViewCart(identity, destination)
	if err != nil {
		return nil, err
	}
	subtotal := view.TotalPrice.Decimal
	shipping := view.Shipping.Cost.Decimal

	quote := &CouponQuote{
		Code:       repository.NormalizeCouponCode(code),
		Subtotal:   view.TotalPrice,
		Discount:   models.NewMoneyFromDecimal(decimal.Zero),
		Shipping:   view.Shipping,
		GrandTotal: models.NewMoneyFromDecimal(grandTotal(subtotal, shipping, decimal.Zero)),
	}
	if quote.Code == "" {
		quote.Reason = ReasonCouponNotFound
		return quote, nil
	}

	coupon, err := s.couponRepo.GetByCode(quote.Code, false)
	if err != nil {
		return nil, err
	}
	if ok, reason := IsCouponValid(coupon, subtotal, s.now()); !ok {
		quote.Reason = reason
		quote.MinimumOrder = couponError(coupon, reason).MinimumOrder
		return quote, nil
	}

	discount := CouponDiscountAmount(coupon, subtotal)
	quote.Valid = true
	quote.Discount = models.NewMoneyFromDecimal(discount)
	quote.GrandTotal = models.NewMoneyFromDecimal(grandTotal(subtotal, shipping, discount))
	return quote, nil
}

// CreateCouponInput 创建优惠券输入
type CreateCouponInput struct {
	Code               string
	DiscountType       string
	Value              models.Money
	MinimumOrderAmount models.Money
	ValidFrom          time.Time
	ValidTo            time.Time
	UsageLimit         *int
	IsActive           *bool
}

// Create 后台创建优惠券
func (s *CouponService) Create(input CreateCouponInput) (*models.Coupon, error) {
	code := repository.NormalizeCouponCode(input.Code)
	if code == "" || len(code) > 50 {
		return nil, &ValidationError{Code: ReasonInvalidCoupon, Field: "code"}
	}
	discountType := strings.ToLower(strings.TrimSpace(input.DiscountType))
	switch discountType {
	case constants.DiscountTypePercentage:
		if input.Value.GreaterThan(hundred) {
			return nil, &ValidationError{Code: ReasonInvalidCoupon, Field: "value"}
		}
	case constants.DiscountTypeFixed:
	default:
		return nil, &ValidationError{Code: ReasonInvalidCoupon, Field: "discount_type"}
	}
	if input.Value.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{Code: ReasonInvalidCoupon, Field: "value"}
	}
	if input.MinimumOrderAmount.LessThan(decimal.Zero) {
		return nil, &ValidationError{Code: ReasonInvalidCoupon, Field: "minimum_order_amount"}
	}
	if input.ValidFrom.IsZero() || !input.ValidTo.After(input.ValidFrom) {
		return nil, &ValidationError{Code: ReasonInvalidCoupon, Field: "valid_to"}
	}
	if input.UsageLimit != nil && *input.UsageLimit < 0 {
		return nil, &ValidationError{Code: ReasonInvalidCoupon, Field: "usage_limit"}
	}

	existing, err := s.couponRepo.GetByCode(code, false)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCouponCodeExists
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	coupon := &models.Coupon{
		Code:               code,
		DiscountType:       discountType,
		Value:              models.NewMoneyFromDecimal(input.Value.Round(2)),
		MinimumOrderAmount: models.NewMoneyFromDecimal(input.MinimumOrderAmount.Round(2)),
		ValidFrom:          input.ValidFrom,
		ValidTo:            input.ValidTo,
		UsageLimit:         input.UsageLimit,
		IsActive:           isActive,
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCouponCodeExists
		}
		return nil, err
	}
	return coupon, nil
}

// List 后台优惠券列表
func (s *CouponService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// lockCouponForOrder 下单事务内锁定并复核优惠券
func lockCouponForOrder(couponRepo repository.CouponRepository, code string, subtotal decimal.Decimal, now time.Time) (*models.Coupon, decimal.Decimal, error) {
	code = repository.NormalizeCouponCode(code)
	if code == "" {
		return nil, decimal.Zero, nil
	}
	coupon, err := couponRepo.GetByCode(code, true)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if ok, reason := IsCouponValid(coupon, subtotal, now); !ok {
		return nil, decimal.Zero, couponError(coupon, reason)
	}
	return coupon, CouponDiscountAmount(coupon, subtotal), nil
}

// consumeCoupon 占用一次使用次数，达到上限视为失效
func consumeCoupon(couponRepo repository.CouponRepository, coupon *models.Coupon) error {
	if coupon == nil {
		return nil
	}
	affected, err := couponRepo.IncrementUsedCount(coupon.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return couponError(coupon, ReasonCouponUsageExhausted)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
