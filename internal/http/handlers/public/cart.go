package public

import (
	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/i18n"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加购请求，quantity 缺省为 1
type CartItemRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  *int `json:"quantity"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// BuyNowRequest 立即购买请求
type BuyNowRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
}

// ShippingResponse 运费及本地化说明
type ShippingResponse struct {
	Cost    models.Money `json:"cost"`
	Message string       `json:"message"`
	Label   string       `json:"label"`
}

// AdjustmentResponse 数量调整及本地化提示
type AdjustmentResponse struct {
	service.QuantityAdjustment
	Notice string `json:"notice"`
}

// CartResponse 购物车响应
type CartResponse struct {
	Items       []service.CartLine   `json:"items"`
	TotalItems  int                  `json:"total_items"`
	TotalPrice  models.Money         `json:"total_price"`
	Shipping    ShippingResponse     `json:"shipping"`
	GrandTotal  models.Money         `json:"grand_total"`
	Adjustments []AdjustmentResponse `json:"adjustments"`
}

func shippingResponse(locale string, quote service.ShippingQuote) ShippingResponse {
	label := ""
	if quote.Message != "" {
		label = i18n.T(locale, "shipping."+quote.Message)
	}
	return ShippingResponse{Cost: quote.Cost, Message: quote.Message, Label: label}
}

func adjustmentResponses(locale string, adjustments []service.QuantityAdjustment) []AdjustmentResponse {
	result := make([]AdjustmentResponse, 0, len(adjustments))
	for _, adjustment := range adjustments {
		notice := i18n.Sprintf(locale, "cart.quantity_clamped", adjustment.After, adjustment.ProductName)
		if adjustment.Removed {
			notice = i18n.Sprintf(locale, "cart.item_removed", adjustment.ProductName)
		}
		result = append(result, AdjustmentResponse{QuantityAdjustment: adjustment, Notice: notice})
	}
	return result
}

func destinationFromQuery(c *gin.Context) service.Destination {
	return service.Destination{City: c.Query("city"), Country: c.Query("country")}
}

func (h *Handler) respondCartView(c *gin.Context, identity service.Identity, extra []service.QuantityAdjustment) {
	view, err := h.CartService.ViewCart(identity, destinationFromQuery(c))
	if err != nil {
		respondServiceError(c, err, "error.cart_fetch_failed")
		return
	}
	locale := i18n.ResolveLocale(c)
	items := view.Items
	if items == nil {
		items = []service.CartLine{}
	}
	response.Success(c, CartResponse{
		Items:       items,
		TotalItems:  view.TotalItems,
		TotalPrice:  view.TotalPrice,
		Shipping:    shippingResponse(locale, view.Shipping),
		GrandTotal:  view.GrandTotal,
		Adjustments: adjustmentResponses(locale, append(extra, view.Adjustments...)),
	})
}

// GetCart 查看购物车（?city=&country= 用于运费估算）
func (h *Handler) GetCart(c *gin.Context) {
	identity, ok := handlershared.IdentityFromContext(c)
	if !ok {
		return
	}
	h.respondCartView(c, identity, nil)
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	identity, ok := handlershared.IdentityFromContext(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if _, err := h.CartService.AddItem(identity, req.VariantID, quantity); err != nil {
		respondServiceError(c, err, "error.cart_update_failed")
		return
	}
	h.respondCartView(c, identity, nil)
}

// UpdateCartItem 修改购物车项数量，超出库存时截断
func (h *Handler) UpdateCartItem(c *gin.Context) {
	identity, ok := handlershared.IdentityFromContext(c)
	if !ok {
		return
	}
	itemID, ok := handlershared.ParseParamUint(c, "id")
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	_, adjustment, err := h.CartService.SetItemQuantity(identity, itemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err, "error.cart_update_failed")
		return
	}
	var extra []service.QuantityAdjustment
	if adjustment != nil {
		extra = append(extra, *adjustment)
	}
	h.respondCartView(c, identity, extra)
}

// RemoveCartItem 删除购物车项，重复删除视为成功
func (h *Handler) RemoveCartItem(c *gin.Context) {
	identity, ok := handlershared.IdentityFromContext(c)
	if !ok {
		return
	}
	itemID, ok := handlershared.ParseParamUint(c, "id")
	if !ok {
		return
	}
	if _, err := h.CartService.RemoveItem(identity, itemID); err != nil {
		respondServiceError(c, err, "error.cart_update_failed")
		return
	}
	h.respondCartView(c, identity, nil)
}

// BuyNow 清空购物车后仅保留该规格 1 件
func (h *Handler) BuyNow(c *gin.Context) {
	identity, ok := handlershared.IdentityFromContext(c)
	if !ok {
		return
	}
	var req BuyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if _, err := h.CartService.BuyNow(identity, req.VariantID); err != nil {
		respondServiceError(c, err, "error.cart_update_failed")
		return
	}
	h.respondCartView(c, identity, nil)
}

// GetCounts 购物车件数与收藏数
func (h *Handler) GetCounts(c *gin.Context) {
	identity, ok := handlershared.IdentityFromContext(c)
	if !ok {
		return
	}
	counts, err := h.CartService.Counts(c.Request.Context(), identity)
	if err != nil {
		respondServiceError(c, err, "error.cart_fetch_failed")
		return
	}
	response.Success(c, counts)
}
