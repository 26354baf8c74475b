package public

import (
	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/i18n"
	"github.com/nilecart/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 下单请求
type CheckoutRequest struct {
	Shipping      service.ShippingInfo `json:"shipping"`
	PaymentMethod string               `json:"payment_method" binding:"required"`
	CouponCode    string               `json:"coupon_code"`
}

// Checkout 将购物车转为订单
func (h *Handler) Checkout(c *gin.Context) {
	identity, ok := handlershared.IdentityFromContext(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.CheckoutService.PlaceOrder(c.Request.Context(), identity, service.PlaceOrderInput{
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
		CouponCode:    req.CouponCode,
		Locale:        i18n.ResolveLocale(c),
	})
	if err != nil {
		respondServiceError(c, err, "error.order_create_failed")
		return
	}
	data := gin.H{"order": order}
	if identity.IsAnonymous() {
		data["access_token"] = order.AnonymousAccessToken
	}
	response.Success(c, data)
}
