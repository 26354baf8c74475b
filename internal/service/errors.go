package service

import (
	"errors"
	"fmt"
)

// 原因码，供调用方做机器判断
const (
	ReasonInvalidQuantity      = "invalid_quantity"
	ReasonIdentityInvalid      = "identity_invalid"
	ReasonInvalidShipping      = "invalid_shipping"
	ReasonInvalidPayment       = "invalid_payment"
	ReasonCartEmpty            = "cart_empty"
	ReasonStatusInvalid        = "order_status_invalid"
	ReasonOutOfStock           = "out_of_stock"
	ReasonConcurrencyConflict  = "concurrency_conflict"
	ReasonCouponNotFound       = "not_found"
	ReasonCouponInactive       = "inactive"
	ReasonCouponNotYetValid    = "not_yet_valid"
	ReasonCouponExpired        = "expired"
	ReasonCouponMinimumNotMet  = "minimum_order_not_met"
	ReasonCouponUsageExhausted = "usage_limit_reached"
	ReasonInvalidCoupon        = "coupon_invalid"
	ReasonAddressInvalid       = "address_invalid"
)

// ReasonCoder 携带稳定原因码的错误
type ReasonCoder interface {
	error
	Reason() string
}

// ValidationError 输入不合法
type ValidationError struct {
	Code  string
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s (%s)", e.Code, e.Field)
	}
	return "validation failed: " + e.Code
}

// Reason 原因码
func (e *ValidationError) Reason() string { return e.Code }

// Is 按原因码匹配
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

// StockError 库存不足，Available 为当前可用数量
type StockError struct {
	VariantID uint
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("out of stock: variant %d requested %d available %d", e.VariantID, e.Requested, e.Available)
}

// Reason 原因码
func (e *StockError) Reason() string { return ReasonOutOfStock }

// Is 任意 StockError 均匹配 ErrOutOfStock
func (e *StockError) Is(target error) bool {
	_, ok := target.(*StockError)
	return ok
}

// CouponError 优惠券不可用
type CouponError struct {
	Code string
	// MinimumOrder 仅在 minimum_order_not_met 时有值
	MinimumOrder string
}

func (e *CouponError) Error() string { return "coupon invalid: " + e.Code }

// Reason 原因码
func (e *CouponError) Reason() string { return e.Code }

// Is 任意 CouponError 均匹配 ErrInvalidCoupon
func (e *CouponError) Is(target error) bool {
	_, ok := target.(*CouponError)
	return ok
}

// ConcurrencyError 并发冲突，可整体重试一次
type ConcurrencyError struct {
	Op string
}

func (e *ConcurrencyError) Error() string { return "concurrency conflict: " + e.Op }

// Reason 原因码
func (e *ConcurrencyError) Reason() string { return ReasonConcurrencyConflict }

// Is 任意 ConcurrencyError 均匹配 ErrConcurrency
func (e *ConcurrencyError) Is(target error) bool {
	_, ok := target.(*ConcurrencyError)
	return ok
}

// NotFoundError 资源不存在
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// Reason 原因码
func (e *NotFoundError) Reason() string { return e.Resource + "_not_found" }

// Is 按资源类型匹配
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	return ok && t.Resource == e.Resource
}

var (
	ErrInvalidQuantity           = &ValidationError{Code: ReasonInvalidQuantity, Field: "quantity"}
	ErrIdentityInvalid           = &ValidationError{Code: ReasonIdentityInvalid}
	ErrInvalidShipping           = &ValidationError{Code: ReasonInvalidShipping}
	ErrInvalidPayment            = &ValidationError{Code: ReasonInvalidPayment, Field: "payment_method"}
	ErrCartEmpty                 = &ValidationError{Code: ReasonCartEmpty}
	ErrOrderStatusInvalid        = &ValidationError{Code: ReasonStatusInvalid, Field: "status"}
	ErrOutOfStock                = &StockError{}
	ErrInvalidCoupon             = &CouponError{}
	ErrConcurrency               = &ConcurrencyError{}
	ErrVariantNotFound           = &NotFoundError{Resource: "variant"}
	ErrProductNotFound           = &NotFoundError{Resource: "product"}
	ErrItemNotFound              = &NotFoundError{Resource: "item"}
	ErrOrderNotFound             = &NotFoundError{Resource: "order"}
	ErrCouponNotFound            = &NotFoundError{Resource: "coupon"}
	ErrAddressNotFound           = &NotFoundError{Resource: "address"}
	ErrUserNotFound              = &NotFoundError{Resource: "user"}
	ErrCouponCodeExists          = errors.New("coupon code exists")
	ErrEmailExists               = errors.New("email already registered")
	ErrInvalidEmail              = errors.New("invalid email")
	ErrWeakPassword              = errors.New("password too weak")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrUserDisabled              = errors.New("user disabled")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// ReasonOf 提取错误原因码，非类型化错误返回空串
func ReasonOf(err error) string {
	var coded ReasonCoder
	if errors.As(err, &coded) {
		return coded.Reason()
	}
	return ""
}
