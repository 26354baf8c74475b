package shared

import (
	"errors"

	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/i18n"
	"github.com/nilecart/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 业务哨兵错误到接口错误响应的映射
type MappedError struct {
	Target error
	Code   int
	Key    string
}

var sentinelErrorRules = []MappedError{
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.invalid_email"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
	{Target: service.ErrUserDisabled, Code: response.CodeForbidden, Key: "error.user_disabled"},
	{Target: service.ErrCouponCodeExists, Code: response.CodeConflict, Key: "error.coupon_code_exists"},
}

var couponReasonKeys = map[string]string{
	service.ReasonCouponNotFound:       "error.coupon_not_found",
	service.ReasonCouponInactive:       "error.coupon_inactive",
	service.ReasonCouponNotYetValid:    "error.coupon_not_yet_valid",
	service.ReasonCouponExpired:        "error.coupon_expired",
	service.ReasonCouponMinimumNotMet:  "error.coupon_minimum_order",
	service.ReasonCouponUsageExhausted: "error.coupon_usage_limit",
}

// CouponReasonKey 优惠券原因码对应的消息 key
func CouponReasonKey(reason string) string {
	if key, ok := couponReasonKeys[reason]; ok {
		return key
	}
	return "error.coupon_invalid"
}

// RespondServiceError 按类型化错误输出原因码与本地化消息，未知错误落到 fallbackKey
func RespondServiceError(c *gin.Context, err error, fallbackKey string) {
	var stockErr *service.StockError
	if errors.As(err, &stockErr) {
		RespondErrorWithData(c, response.CodeUnprocessable, "error.out_of_stock", gin.H{
			"reason":     stockErr.Reason(),
			"variant_id": stockErr.VariantID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		}, nil, stockErr.Available)
		return
	}

	var couponErr *service.CouponError
	if errors.As(err, &couponErr) {
		data := gin.H{"reason": couponErr.Reason()}
		key := CouponReasonKey(couponErr.Code)
		if couponErr.MinimumOrder != "" {
			data["minimum_order"] = couponErr.MinimumOrder
			RespondErrorWithData(c, response.CodeUnprocessable, key, data, nil, couponErr.MinimumOrder)
			return
		}
		RespondErrorWithData(c, response.CodeUnprocessable, key, data, nil)
		return
	}

	var policyErr *service.PasswordPolicyError
	if errors.As(err, &policyErr) {
		RespondErrorWithData(c, response.CodeBadRequest, policyErr.Key, gin.H{"reason": policyErr.Reason()}, nil, policyErr.Args...)
		return
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		key := "error." + validationErr.Code
		if i18n.T(i18n.DefaultLocale, key) == key {
			key = "error.validation"
		}
		data := gin.H{"reason": validationErr.Reason()}
		if validationErr.Field != "" {
			data["field"] = validationErr.Field
		}
		RespondErrorWithData(c, response.CodeBadRequest, key, data, nil)
		return
	}

	var notFoundErr *service.NotFoundError
	if errors.As(err, &notFoundErr) {
		RespondErrorWithData(c, response.CodeNotFound, "error."+notFoundErr.Reason(), gin.H{"reason": notFoundErr.Reason()}, nil)
		return
	}

	var concurrencyErr *service.ConcurrencyError
	if errors.As(err, &concurrencyErr) {
		RespondErrorWithData(c, response.CodeConflict, "error.concurrency_conflict", gin.H{"reason": concurrencyErr.Reason()}, nil)
		return
	}

	for _, rule := range sentinelErrorRules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, response.CodeInternal, fallbackKey, err)
}
