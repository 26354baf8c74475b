package public

import (
	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/i18n"
	"github.com/nilecart/internal/service"

	"github.com/gin-gonic/gin"
)

// ApplyCouponRequest 试用优惠券请求
type ApplyCouponRequest struct {
	Code    string `json:"code" binding:"required"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// ApplyCoupon 购物车试算优惠券，不占用使用次数
func (h *Handler) ApplyCoupon(c *gin.Context) {
	identity, ok := handlershared.IdentityFromContext(c)
	if !ok {
		return
	}
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	quote, err := h.CouponService.ApplyCoupon(identity, req.Code, service.Destination{City: req.City, Country: req.Country})
	if err != nil {
		respondServiceError(c, err, "error.coupon_invalid")
		return
	}
	locale := i18n.ResolveLocale(c)
	message := ""
	if !quote.Valid {
		if quote.MinimumOrder != "" {
			message = i18n.Sprintf(locale, handlershared.CouponReasonKey(quote.Reason), quote.MinimumOrder)
		} else {
			message = i18n.T(locale, handlershared.CouponReasonKey(quote.Reason))
		}
	}
	response.Success(c, gin.H{
		"quote":          quote,
		"shipping_label": shippingResponse(locale, quote.Shipping).Label,
		"message":        message,
	})
}
