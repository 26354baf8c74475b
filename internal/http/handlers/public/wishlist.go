package public

import (
	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/models"

	"github.com/gin-gonic/gin"
)

// WishlistItemRequest 收藏请求
type WishlistItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetWishlist 收藏列表
func (h *Handler) GetWishlist(c *gin.Context) {
	identity, ok := handlershared.IdentityFromContext(c)
	if !ok {
		return
	}
	items, err := h.WishlistService.List(identity)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	if items == nil {
		items = []models.WishlistItem{}
	}
	response.Success(c, items)
}

// AddWishlistItem 收藏商品，重复收藏视为成功
func (h *Handler) AddWishlistItem(c *gin.Context) {
	identity, ok := handlershared.IdentityFromContext(c)
	if !ok {
		return
	}
	var req WishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.WishlistService.Add(identity, req.ProductID); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"product_id": req.ProductID})
}

// RemoveWishlistItem 取消收藏
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
	identity, ok := handlershared.IdentityFromContext(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseParamUint(c, "product_id")
	if !ok {
		return
	}
	if err := h.WishlistService.Remove(identity, productID); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"product_id": productID})
}
