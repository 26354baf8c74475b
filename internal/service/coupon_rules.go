package service

import (
	"strings"
	"time"

	"github.com/nilecart/internal/constants"
	"github.com/nilecart/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// IsCouponValid 依次检查 启用 → 生效 → 过期 → 门槛 → 次数，返回首个失败原因
func IsCouponValid(coupon *models.Coupon, subtotal decimal.Decimal, now time.Time) (bool, string) {
	if coupon == nil {
		return false, ReasonCouponNotFound
	}
	if !coupon.IsActive {
		return false, ReasonCouponInactive
	}
	if now.Before(coupon.ValidFrom) {
		return false, ReasonCouponNotYetValid
	}
	if now.After(coupon.ValidTo) {
		return false, ReasonCouponExpired
	}
	if subtotal.LessThan(coupon.MinimumOrderAmount.Decimal) {
		return false, ReasonCouponMinimumNotMet
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return false, ReasonCouponUsageExhausted
	}
	return true, ""
}

// CouponDiscountAmount 优惠金额，结果落在 [0, subtotal]
func CouponDiscountAmount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil || subtotal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	value := coupon.Value.Decimal
	var discount decimal.Decimal
	switch strings.ToLower(strings.TrimSpace(coupon.DiscountType)) {
	case constants.DiscountTypePercentage:
		discount = subtotal.Mul(value).Div(hundred)
	case constants.DiscountTypeFixed:
		discount = value
	default:
		return decimal.Zero
	}
	discount = discount.Round(2)
	if discount.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

// couponError 构造带原因的优惠券错误
func couponError(coupon *models.Coupon, reason string) *CouponError {
	err := &CouponError{Code: reason}
	if reason == ReasonCouponMinimumNotMet && coupon != nil {
		err.MinimumOrder = coupon.MinimumOrderAmount.StringFixed(2)
	}
	return err
}

// grandTotal max(0, 小计 + 运费 - 优惠)
func grandTotal(subtotal, shipping, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(shipping).Sub(discount)
	if total.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return total.Round(2)
}
