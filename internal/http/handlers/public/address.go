package public

import (
	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/service"

	"github.com/gin-gonic/gin"
)

// ListAddresses 地址簿
func (h *Handler) ListAddresses(c *gin.Context) {
	userID, ok := handlershared.RequireUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.List(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if addresses == nil {
		addresses = []models.ShippingAddress{}
	}
	response.Success(c, addresses)
}

// CreateAddress 新增地址
func (h *Handler) CreateAddress(c *gin.Context) {
	userID, ok := handlershared.RequireUserID(c)
	if !ok {
		return
	}
	var req service.AddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	address, err := h.AddressService.Create(userID, req)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, address)
}
